package plan

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ppiankov/veridict/internal/graph"
	"github.com/ppiankov/veridict/internal/model"
)

func buildGraph(t *testing.T, claims []model.AtomicClaim) *graph.Graph {
	t.Helper()
	nodes := make([]graph.ClaimNode, len(claims))
	for i, c := range claims {
		nodes[i] = graph.ClaimNode{ID: c.ID, Statement: c.Statement, Dependencies: c.Dependencies}
	}
	g, err := graph.Build(nodes)
	if err != nil {
		t.Fatalf("graph build failed: %v", err)
	}
	return g
}

func twoClaims() []model.AtomicClaim {
	return []model.AtomicClaim{
		{ID: "c1", Statement: "The Great Wall of China exists", Priority: model.PriorityHigh},
		{ID: "c2", Statement: "The Great Wall is visible from space", Priority: model.PriorityHigh, Dependencies: []string{"c1"}},
	}
}

func TestPlan_RespectsBudgetExactly(t *testing.T) {
	claims := twoClaims()
	g := buildGraph(t, claims)

	var proposed []model.SearchQuery
	for i := 0; i < 10; i++ {
		claimID := "c1"
		if i%2 == 1 {
			claimID = "c2"
		}
		proposed = append(proposed, model.SearchQuery{
			ID:      fmt.Sprintf("p%d", i+1),
			Query:   fmt.Sprintf("proposed query %d", i+1),
			ClaimID: claimID,
			Type:    model.QueryDirectVerification,
		})
	}

	plan := NewPlanner(10).Plan(claims, g, proposed)
	if len(plan) != 10 {
		t.Fatalf("expected exactly 10 queries, got %d", len(plan))
	}

	// Renumbered ids q1..q10
	for i, q := range plan {
		if q.ID != fmt.Sprintf("q%d", i+1) {
			t.Errorf("query %d has id %s", i, q.ID)
		}
	}
}

func TestPlan_EveryClaimCovered(t *testing.T) {
	claims := []model.AtomicClaim{
		{ID: "c1", Statement: "one", Priority: model.PriorityLow},
		{ID: "c2", Statement: "two", Priority: model.PriorityHigh, Dependencies: []string{"c1"}},
		{ID: "c3", Statement: "three", Priority: model.PriorityMedium},
	}
	g := buildGraph(t, claims)

	// No proposals at all: the planner synthesizes coverage
	plan := NewPlanner(10).Plan(claims, g, nil)

	covered := map[string]bool{}
	for _, q := range plan {
		covered[q.ClaimID] = true
	}
	for _, c := range claims {
		if !covered[c.ID] {
			t.Errorf("claim %s received no query", c.ID)
		}
	}
}

func TestPlan_FoundationalFirst(t *testing.T) {
	claims := []model.AtomicClaim{
		{ID: "derived", Statement: "derived claim", Priority: model.PriorityHigh, Dependencies: []string{"base"}},
		{ID: "base", Statement: "base claim", Priority: model.PriorityLow},
	}
	g := buildGraph(t, claims)

	// Budget of 1: the single slot must go to the foundational claim even
	// though the derived one has higher priority.
	plan := NewPlanner(1).Plan(claims, g, nil)
	if len(plan) != 1 {
		t.Fatalf("expected 1 query, got %d", len(plan))
	}
	if plan[0].ClaimID != "base" {
		t.Errorf("budget slot went to %s, want foundational claim", plan[0].ClaimID)
	}
}

func TestPlan_DirectBeforeContradiction(t *testing.T) {
	claims := []model.AtomicClaim{{ID: "c1", Statement: "s", Priority: model.PriorityHigh}}
	g := buildGraph(t, claims)

	proposed := []model.SearchQuery{
		{ID: "p1", Query: "is s debunked", ClaimID: "c1", Type: model.QueryContradictionCheck},
		{ID: "p2", Query: "s evidence", ClaimID: "c1", Type: model.QueryDirectVerification},
	}

	plan := NewPlanner(2).Plan(claims, g, proposed)
	if len(plan) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(plan))
	}
	if plan[0].Type != model.QueryDirectVerification {
		t.Errorf("first query type = %s, want direct_verification", plan[0].Type)
	}
	if plan[1].Type != model.QueryContradictionCheck {
		t.Errorf("second query type = %s, want contradiction_check", plan[1].Type)
	}
}

func TestPlan_DiscardsUnknownClaims(t *testing.T) {
	claims := []model.AtomicClaim{{ID: "c1", Statement: "s", Priority: model.PriorityMedium}}
	g := buildGraph(t, claims)

	proposed := []model.SearchQuery{
		{ID: "p1", Query: "query for ghost claim", ClaimID: "ghost", Type: model.QueryDirectVerification},
		{ID: "p2", Query: "", ClaimID: "c1", Type: model.QueryDirectVerification},
		{ID: "p3", Query: "real query", ClaimID: "c1", Type: model.QueryDirectVerification},
	}

	plan := NewPlanner(1).Plan(claims, g, proposed)
	if len(plan) != 1 {
		t.Fatalf("expected 1 query, got %d", len(plan))
	}
	if plan[0].Query != "real query" {
		t.Errorf("unexpected query selected: %q", plan[0].Query)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	claims := twoClaims()
	g := buildGraph(t, claims)

	proposed := []model.SearchQuery{
		{ID: "p1", Query: "alpha", ClaimID: "c1", Type: model.QueryDirectVerification},
		{ID: "p2", Query: "beta", ClaimID: "c2", Type: model.QueryExpertConsensus},
	}

	first := NewPlanner(10).Plan(claims, g, proposed)
	for i := 0; i < 5; i++ {
		again := NewPlanner(10).Plan(claims, g, proposed)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("plan not deterministic:\n%+v\nvs\n%+v", first, again)
		}
	}
}

func TestPlan_DeduplicatesQueryText(t *testing.T) {
	claims := []model.AtomicClaim{{ID: "c1", Statement: "s", Priority: model.PriorityMedium}}
	g := buildGraph(t, claims)

	proposed := []model.SearchQuery{
		{ID: "p1", Query: "Same Query", ClaimID: "c1", Type: model.QueryDirectVerification},
		{ID: "p2", Query: "same query", ClaimID: "c1", Type: model.QueryDirectVerification},
	}

	plan := NewPlanner(10).Plan(claims, g, proposed)
	texts := map[string]int{}
	for _, q := range plan {
		texts[q.Query]++
	}
	if texts["Same Query"]+texts["same query"] > 1 {
		t.Errorf("duplicate query text survived planning: %+v", plan)
	}
}

func TestPlan_EmptyClaims(t *testing.T) {
	if plan := NewPlanner(10).Plan(nil, nil, nil); len(plan) != 0 {
		t.Errorf("expected empty plan, got %d queries", len(plan))
	}
}
