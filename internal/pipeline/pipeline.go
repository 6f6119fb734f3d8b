// Package pipeline orchestrates a verification session end to end:
// classify, decompose, plan, gather, score, synthesize. Stage progress is
// recorded on the session's execution log, so a failed or partial run
// still tells the caller exactly how far it got and why.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/veridict/internal/gather"
	"github.com/ppiankov/veridict/internal/graph"
	"github.com/ppiankov/veridict/internal/llm"
	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/plan"
	"github.com/ppiankov/veridict/internal/score"
	"github.com/ppiankov/veridict/internal/search"
	"github.com/ppiankov/veridict/internal/store"
	"github.com/ppiankov/veridict/internal/verdict"
)

// Pipeline runs verification sessions
type Pipeline struct {
	config      *model.Config
	stages      *llm.Stages
	planner     *plan.Planner
	gatherer    *gather.Gatherer
	scorer      *score.Scorer
	synthesizer *verdict.Synthesizer
	sessions    *store.Store // nil disables persistence
	logger      *zap.Logger
}

// New wires a pipeline from configuration and its two external
// dependencies, the LLM stage layer and the search provider. sessions may
// be nil to disable persistence.
func New(cfg *model.Config, stages *llm.Stages, searchProvider search.Provider, sessions *store.Store, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		config:      cfg,
		stages:      stages,
		planner:     plan.NewPlanner(cfg.Pipeline.QueryBudget),
		gatherer:    gather.New(searchProvider, cfg.Pipeline.Workers, cfg.Pipeline.SearchTimeout, cfg.Search.MaxResults),
		scorer:      score.NewScorer(cfg.Credibility),
		synthesizer: verdict.NewSynthesizer(),
		sessions:    sessions,
		logger:      logger,
	}
}

// Verify runs the full pipeline for one claim. The returned session is
// non-nil whenever a session was started, including on fatal stage
// failures; callers inspect the error to distinguish. Claims below the
// configured minimum length are rejected before a session exists.
func (p *Pipeline) Verify(ctx context.Context, claimText string) (*model.Session, error) {
	claimText = strings.TrimSpace(claimText)
	if len(claimText) < p.config.Pipeline.MinClaimLength {
		return nil, ErrClaimTooShort
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID: uuid.NewString(),
		Claim: model.Claim{
			Text:        claimText,
			SubmittedAt: now,
		},
		CreatedAt: now,
	}
	session.LogStage(model.StageReceived, true, "", nil)
	p.logger.Info("verification started",
		zap.String("session", session.ID),
		zap.Int("claim_length", len(claimText)))

	// Classification
	classification, err := p.stages.Classify(ctx, claimText)
	if err != nil {
		session.LogStage(model.StageClassified, false, "", err)
		return p.fail(session, model.StageClassified, err)
	}
	session.Claim.Classification = classification
	session.LogStage(model.StageClassified, true,
		fmt.Sprintf("%s/%s/%s", classification.Domain, classification.ClaimType, classification.Complexity), nil)

	// Decomposition and graph validation
	claims, err := p.stages.Decompose(ctx, claimText)
	if err != nil {
		session.LogStage(model.StageDecomposed, false, "", err)
		return p.fail(session, model.StageDecomposed, err)
	}
	nodes := make([]graph.ClaimNode, len(claims))
	for i, c := range claims {
		nodes[i] = graph.ClaimNode{ID: c.ID, Statement: c.Statement, Dependencies: c.Dependencies}
	}
	g, err := graph.Build(nodes)
	if err != nil {
		session.LogStage(model.StageDecomposed, false, "", err)
		return p.fail(session, model.StageDecomposed, err)
	}
	session.AtomicClaims = claims
	session.LogStage(model.StageDecomposed, true,
		fmt.Sprintf("%d atomic claims, %d foundational", g.Len(), len(g.Foundational())), nil)

	// Query planning. A failed proposal call is not fatal: the planner
	// synthesizes coverage on its own.
	proposed, err := p.stages.ProposeQueries(ctx, claims, p.planner.Budget())
	if err != nil {
		p.logger.Warn("query proposal failed, synthesizing queries",
			zap.String("session", session.ID), zap.Error(err))
		proposed = nil
	}
	queries := p.planner.Plan(claims, g, proposed)
	if len(queries) == 0 {
		err := fmt.Errorf("planner produced no queries")
		session.LogStage(model.StageQueriesPlanned, false, "", err)
		return p.fail(session, model.StageQueriesPlanned, err)
	}
	session.Queries = queries
	session.LogStage(model.StageQueriesPlanned, true, fmt.Sprintf("%d queries", len(queries)), nil)

	// Evidence gathering. Partial failure is normal and recorded, not
	// propagated; only the per-outcome errors say what went wrong.
	outcomes := p.gatherer.Gather(ctx, queries)
	for i := range outcomes {
		for j := range outcomes[i].Results {
			outcomes[i].Results[j].Tier = p.scorer.Tier(outcomes[i].Results[j].Domain)
		}
	}
	session.Outcomes = outcomes
	if ctx.Err() != nil {
		session.Incomplete = true
	}
	for _, o := range outcomes {
		if !o.Success {
			session.LogQueryFailure(o.QueryID, o.Error)
		}
	}
	session.LogStage(model.StageEvidenceGathered, true,
		fmt.Sprintf("%d of %d queries succeeded", len(outcomes)-session.FailedQueries(), len(outcomes)), nil)

	// Verdict synthesis is deterministic and total: it runs on whatever
	// evidence survived, including none.
	eval := p.synthesizer.Synthesize(claims, g, outcomes)
	session.Evaluation = &eval
	session.LogStage(model.StageEvaluated, true,
		fmt.Sprintf("%s (%.2f)", eval.OverallVerdict, eval.Confidence), nil)

	// Optional narrative, generated after the verdict is fixed. Failure
	// degrades the report only.
	if ctx.Err() == nil {
		narrative, err := p.stages.Narrate(ctx, claimText, eval)
		if err != nil {
			p.logger.Warn("narrative generation failed",
				zap.String("session", session.ID), zap.Error(err))
		} else {
			session.Evaluation.Narrative = narrative
		}
	}

	session.LogStage(model.StageDone, true, "", nil)
	session.FinishedAt = time.Now().UTC()
	p.save(session)

	p.logger.Info("verification finished",
		zap.String("session", session.ID),
		zap.String("verdict", string(eval.OverallVerdict)),
		zap.Float64("confidence", eval.Confidence),
		zap.Int("failed_queries", session.FailedQueries()),
		zap.Bool("incomplete", session.Incomplete))
	return session, nil
}

// fail finalizes a session after a fatal stage error
func (p *Pipeline) fail(session *model.Session, stage model.Stage, err error) (*model.Session, error) {
	session.FinishedAt = time.Now().UTC()
	p.save(session)
	p.logger.Error("verification failed",
		zap.String("session", session.ID),
		zap.String("stage", string(stage)),
		zap.Error(err))
	return session, &StageError{Stage: stage, Err: err}
}

// save persists the session; persistence errors never fail verification
func (p *Pipeline) save(session *model.Session) {
	if p.sessions == nil {
		return
	}
	key, err := p.sessions.Save(session)
	if err != nil {
		p.logger.Warn("session persistence failed",
			zap.String("session", session.ID), zap.Error(err))
		return
	}
	session.ResultKey = key
}
