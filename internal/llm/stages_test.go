package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/veridict/internal/model"
)

// scriptedProvider returns canned responses in order
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
	lastReq   GenerateRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("no scripted response for call %d", p.calls)
	}
	text := p.responses[p.calls]
	p.calls++
	return &GenerateResponse{Text: text, Model: "scripted-1"}, nil
}

func TestClassify_Valid(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"domain":"Science","claim_type":"Factual","complexity":"Simple","urgency":"Low","rationale":"physical fact"}`,
	}}
	stages := NewStages(provider)

	c, err := stages.Classify(context.Background(), "water boils at 100C at sea level")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if c.Domain != "Science" || c.ClaimType != "Factual" || c.Complexity != "Simple" || c.Urgency != "Low" {
		t.Errorf("classification = %+v", c)
	}
	if provider.lastReq.System == "" {
		t.Error("classify sent no system prompt")
	}
}

func TestClassify_WrappedInProse(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Here is my classification:\n```json\n{\"domain\":\"Health\",\"claim_type\":\"Mixed\",\"complexity\":\"Compound\",\"urgency\":\"High\"}\n```",
	}}

	c, err := NewStages(provider).Classify(context.Background(), "claim")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if c.Domain != "Health" {
		t.Errorf("domain = %s", c.Domain)
	}
}

func TestClassify_RejectsUnknownLabels(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"domain":"Astrology","claim_type":"Factual","complexity":"Simple","urgency":"Low"}`,
	}}

	_, err := NewStages(provider).Classify(context.Background(), "claim")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Stage != "classify" {
		t.Errorf("stage = %s", parseErr.Stage)
	}
}

func TestClassify_NoJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"I cannot classify this claim."}}
	_, err := NewStages(provider).Classify(context.Background(), "claim")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestClassify_ProviderError(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("connection refused")}
	_, err := NewStages(provider).Classify(context.Background(), "claim")
	if err == nil {
		t.Fatal("expected error")
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Error("transport error misreported as parse error")
	}
}

func TestDecompose_Valid(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"atomic_claims": [
			{"id":"claim_1","statement":"The Great Wall of China exists","dependencies":[],"type":"fact","priority":"high","entities":["Great Wall of China"]},
			{"id":"claim_2","statement":"The Great Wall is visible from space","dependencies":["claim_1"],"type":"fact","priority":"high"}
		]
	}`}}

	claims, err := NewStages(provider).Decompose(context.Background(), "The Great Wall of China is visible from space")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("got %d claims", len(claims))
	}
	if claims[0].ID != "claim_1" || !claims[0].IsFoundational() {
		t.Errorf("claim_1 = %+v", claims[0])
	}
	if len(claims[1].Dependencies) != 1 || claims[1].Dependencies[0] != "claim_1" {
		t.Errorf("claim_2 dependencies = %v", claims[1].Dependencies)
	}
	if claims[0].Type != model.AtomicTypeFact || claims[0].Priority != model.PriorityHigh {
		t.Errorf("claim_1 type/priority = %s/%s", claims[0].Type, claims[0].Priority)
	}
}

func TestDecompose_DefaultsUnknownLabels(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"atomic_claims": [{"id":"c1","statement":"s","type":"conjecture","priority":"urgent"}]
	}`}}

	claims, err := NewStages(provider).Decompose(context.Background(), "claim")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if claims[0].Type != model.AtomicTypeFact {
		t.Errorf("type = %s, want fact default", claims[0].Type)
	}
	if claims[0].Priority != model.PriorityMedium {
		t.Errorf("priority = %s, want medium default", claims[0].Priority)
	}
}

func TestDecompose_RejectsEmptyStatement(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"atomic_claims":[{"id":"c1","statement":"  "}]}`}}
	_, err := NewStages(provider).Decompose(context.Background(), "claim")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestDecompose_RejectsEmptyList(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"atomic_claims":[]}`}}
	_, err := NewStages(provider).Decompose(context.Background(), "claim")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestProposeQueries_Valid(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{
		"queries": [
			{"id":"q1","query":"great wall visible from space NASA","claim_id":"claim_1","query_type":"direct_verification","priority":"high"},
			{"id":"q2","query":"great wall visibility debunked","claim_id":"claim_1","query_type":"contradiction_check","priority":"medium"}
		]
	}`}}
	stages := NewStages(provider)

	claims := []model.AtomicClaim{{ID: "claim_1", Statement: "s", Priority: model.PriorityHigh}}
	queries, err := stages.ProposeQueries(context.Background(), claims, 10)
	if err != nil {
		t.Fatalf("propose queries: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("got %d queries", len(queries))
	}
	if queries[0].Type != model.QueryDirectVerification || queries[1].Type != model.QueryContradictionCheck {
		t.Errorf("query types = %s, %s", queries[0].Type, queries[1].Type)
	}
}

func TestProposeQueries_BudgetInSystemPrompt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"queries":[{"id":"q1","query":"x","claim_id":"c1"}]}`}}
	stages := NewStages(provider)

	_, err := stages.ProposeQueries(context.Background(), []model.AtomicClaim{{ID: "c1", Statement: "s"}}, 7)
	if err != nil {
		t.Fatalf("propose queries: %v", err)
	}
	if want := "exactly 7"; !strings.Contains(strings.ToLower(provider.lastReq.System), want) {
		t.Errorf("system prompt missing budget %q", want)
	}
}

func TestNarrate_Valid(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"The claim was found to be false. Authoritative sources refute it."}}
	stages := NewStages(provider)

	narrative, err := stages.Narrate(context.Background(), "claim", model.Evaluation{
		OverallVerdict: model.VerdictFalse,
		Confidence:     0.9,
	})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if narrative == "" {
		t.Error("empty narrative")
	}
}

func TestNarrate_RejectsEmpty(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"   "}}
	_, err := NewStages(provider).Narrate(context.Background(), "claim", model.Evaluation{})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}
