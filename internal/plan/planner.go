// Package plan turns a dependency graph plus LLM-proposed queries into a
// prioritized, budget-bounded search plan. Allocation is deterministic:
// the same graph and proposals always produce the same plan.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/veridict/internal/graph"
	"github.com/ppiankov/veridict/internal/model"
)

// Planner allocates search queries under a fixed budget
type Planner struct {
	budget int
}

// NewPlanner creates a planner. budget defaults to 10.
func NewPlanner(budget int) *Planner {
	if budget <= 0 {
		budget = 10
	}
	return &Planner{budget: budget}
}

// Budget returns the configured query budget
func (p *Planner) Budget() int {
	return p.budget
}

// Plan builds the final query list. Foundational claims are covered
// first (their verification gates derived-claim evaluation), then derived
// claims; within a claim, direct-verification queries come before
// contradiction checks. Every claim gets at least one query while the
// budget allows; excess budget goes to claims by descending priority.
// Proposed queries that reference an unknown claim are discarded; claims
// with no usable proposals get synthesized queries. Output ids are
// renumbered q1..qN so plans are reproducible.
func (p *Planner) Plan(claims []model.AtomicClaim, g *graph.Graph, proposed []model.SearchQuery) []model.SearchQuery {
	if len(claims) == 0 {
		return []model.SearchQuery{}
	}

	byID := make(map[string]model.AtomicClaim, len(claims))
	for _, c := range claims {
		byID[c.ID] = c
	}

	// Bucket usable proposals per claim, direct verification first.
	buckets := make(map[string][]model.SearchQuery)
	for _, q := range proposed {
		c, ok := byID[q.ClaimID]
		if !ok || strings.TrimSpace(q.Query) == "" {
			continue
		}
		q.Priority = c.Priority
		buckets[q.ClaimID] = append(buckets[q.ClaimID], q)
	}
	for id := range buckets {
		b := buckets[id]
		sort.SliceStable(b, func(i, j int) bool {
			return b[i].Type.Rank() < b[j].Type.Rank()
		})
		buckets[id] = b
	}

	// Coverage order: foundational claims first, then derived, both in
	// graph insertion order.
	coverage := append(g.Foundational(), g.Derived()...)

	var plan []model.SearchQuery
	seen := make(map[string]bool)

	take := func(claimID string) bool {
		b := buckets[claimID]
		for len(b) > 0 {
			q := b[0]
			b = b[1:]
			buckets[claimID] = b
			key := strings.ToLower(strings.TrimSpace(q.Query))
			if seen[key] {
				continue
			}
			seen[key] = true
			plan = append(plan, q)
			return true
		}
		return false
	}

	synth := synthQueue(claims, byID)
	takeSynth := func(claimID string) bool {
		for len(synth[claimID]) > 0 {
			q := synth[claimID][0]
			synth[claimID] = synth[claimID][1:]
			key := strings.ToLower(strings.TrimSpace(q.Query))
			if seen[key] {
				continue
			}
			seen[key] = true
			plan = append(plan, q)
			return true
		}
		return false
	}

	// Pass 1: at least one query per claim while the budget allows
	for _, id := range coverage {
		if len(plan) >= p.budget {
			break
		}
		if !take(id) {
			takeSynth(id)
		}
	}

	// Pass 2: distribute the remaining budget by descending priority,
	// round-robin so a single claim cannot starve the rest.
	order := append([]string{}, coverage...)
	sort.SliceStable(order, func(i, j int) bool {
		return byID[order[i]].Priority.Rank() < byID[order[j]].Priority.Rank()
	})
	for len(plan) < p.budget {
		progressed := false
		for _, id := range order {
			if len(plan) >= p.budget {
				break
			}
			if take(id) || takeSynth(id) {
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	// Renumber ids in final order
	for i := range plan {
		plan[i].ID = fmt.Sprintf("q%d", i+1)
	}
	return plan
}

// synthQueue builds fallback queries per claim, one per query type, used
// when the proposals do not cover a claim or the budget exceeds them.
func synthQueue(claims []model.AtomicClaim, byID map[string]model.AtomicClaim) map[string][]model.SearchQuery {
	out := make(map[string][]model.SearchQuery, len(claims))
	for _, c := range claims {
		statement := strings.TrimSpace(c.Statement)
		templates := []struct {
			qt   model.QueryType
			text string
		}{
			{model.QueryDirectVerification, statement + " fact check"},
			{model.QuerySourceVerification, statement + " official statement"},
			{model.QueryExpertConsensus, statement + " scientific consensus"},
			{model.QueryContradictionCheck, statement + " debunked false misleading"},
		}
		for _, tpl := range templates {
			out[c.ID] = append(out[c.ID], model.SearchQuery{
				Query:    tpl.text,
				ClaimID:  c.ID,
				Type:     tpl.qt,
				Priority: byID[c.ID].Priority,
			})
		}
	}
	return out
}
