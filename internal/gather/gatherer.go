// Package gather fans planned search queries out to the search provider
// with bounded parallelism and per-query timeouts. Partial failure is the
// normal case: every submitted query yields exactly one outcome, and a
// failed or timed-out query never blocks the others.
package gather

import (
	"context"
	"time"

	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/search"
	"github.com/ppiankov/veridict/internal/worker"
)

// Gatherer executes search queries concurrently
type Gatherer struct {
	provider        search.Provider
	workers         int
	perQueryTimeout time.Duration
	maxResults      int
}

// New creates a gatherer. workers defaults to 3, perQueryTimeout to 30s.
func New(provider search.Provider, workers int, perQueryTimeout time.Duration, maxResults int) *Gatherer {
	if workers <= 0 {
		workers = 3
	}
	if perQueryTimeout <= 0 {
		perQueryTimeout = 30 * time.Second
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Gatherer{
		provider:        provider,
		workers:         workers,
		perQueryTimeout: perQueryTimeout,
		maxResults:      maxResults,
	}
}

// searchJob wraps one query for pool execution
type searchJob struct {
	query    model.SearchQuery
	gatherer *Gatherer
}

// searchOutcome adapts a QueryOutcome to the pool's Result interface
type searchOutcome struct {
	outcome model.QueryOutcome
	err     error
}

func (r *searchOutcome) GetError() error { return r.err }

// Execute runs one search under its own timeout. Provider errors and
// timeouts become failure outcomes, not dropped queries.
func (j *searchJob) Execute(ctx context.Context) worker.Result {
	g := j.gatherer
	queryCtx, cancel := context.WithTimeout(ctx, g.perQueryTimeout)
	defer cancel()

	start := time.Now()
	results, err := g.provider.Search(queryCtx, j.query.Query, g.maxResults)
	latency := time.Since(start)

	outcome := model.QueryOutcome{
		QueryID:  j.query.ID,
		Query:    j.query.Query,
		ClaimID:  j.query.ClaimID,
		Type:     j.query.Type,
		Priority: j.query.Priority,
		Latency:  latency,
	}

	if err != nil {
		outcome.Error = err.Error()
		return &searchOutcome{outcome: outcome, err: err}
	}

	outcome.Success = true
	outcome.Results = results
	return &searchOutcome{outcome: outcome}
}

// cancelledOutcome converts an unexecuted job into its failure outcome.
// Used by the pool when the session context ends before dispatch.
func cancelledOutcome(job worker.Job, err error) worker.Result {
	j := job.(*searchJob)
	return &searchOutcome{
		outcome: model.QueryOutcome{
			QueryID:  j.query.ID,
			Query:    j.query.Query,
			ClaimID:  j.query.ClaimID,
			Type:     j.query.Type,
			Priority: j.query.Priority,
			Error:    "cancelled: " + err.Error(),
		},
		err: err,
	}
}

// Gather executes all queries and returns one outcome per query, in
// submission order. Completion order is irrelevant: outcomes are
// reassociated by query id. Wall clock is bounded by
// ceil(len(queries)/workers) * perQueryTimeout plus scheduling overhead.
func (g *Gatherer) Gather(ctx context.Context, queries []model.SearchQuery) []model.QueryOutcome {
	if len(queries) == 0 {
		return []model.QueryOutcome{}
	}

	pool := worker.NewPool(g.workers, cancelledOutcome)
	pool.Start(ctx)

	// Submit blocks when the queue is full, which is fine: workers keep
	// draining it (executing, or converting to cancelled outcomes once
	// ctx is done), so submission always completes.
	for _, q := range queries {
		pool.Submit(&searchJob{query: q, gatherer: g})
	}
	results := pool.Wait()

	byID := make(map[string]model.QueryOutcome, len(results))
	for _, r := range results {
		so := r.(*searchOutcome)
		byID[so.outcome.QueryID] = so.outcome
	}

	// Reassemble in submission order; synthesize a failure outcome for
	// anything missing so the one-outcome-per-query guarantee holds even
	// if a result went astray.
	outcomes := make([]model.QueryOutcome, 0, len(queries))
	for _, q := range queries {
		if o, ok := byID[q.ID]; ok {
			outcomes = append(outcomes, o)
			continue
		}
		outcomes = append(outcomes, model.QueryOutcome{
			QueryID:  q.ID,
			Query:    q.Query,
			ClaimID:  q.ClaimID,
			Type:     q.Type,
			Priority: q.Priority,
			Error:    "no outcome recorded",
		})
	}
	return outcomes
}
