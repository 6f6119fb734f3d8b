package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/veridict/internal/model"
)

// Stages wraps a Provider with the typed calls the verification pipeline
// makes. Each call owns its system prompt, its response schema, and the
// validation of the parsed result.
type Stages struct {
	provider Provider
}

// NewStages creates the typed stage layer over a provider
func NewStages(provider Provider) *Stages {
	return &Stages{provider: provider}
}

// Provider exposes the underlying provider, for availability checks
func (s *Stages) Provider() Provider {
	return s.provider
}

var (
	validDomains      = set("Politics", "Health", "Science", "Economics", "Social", "Other")
	validClaimTypes   = set("Factual", "Opinion", "Prediction", "Satire", "Mixed")
	validComplexities = set("Simple", "Compound", "Complex")
	validUrgencies    = set("High", "Medium", "Low")
)

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// Classify labels a claim across domain, type, complexity and urgency.
// An out-of-vocabulary label is a parse failure, not a pass-through.
func (s *Stages) Classify(ctx context.Context, claim string) (*model.Classification, error) {
	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System: classifierSystemPrompt,
		Prompt: classifyPrompt(claim),
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	var parsed struct {
		Domain     string `json:"domain"`
		ClaimType  string `json:"claim_type"`
		Complexity string `json:"complexity"`
		Urgency    string `json:"urgency"`
		Rationale  string `json:"rationale"`
	}
	if err := decodeStage("classify", resp.Text, &parsed); err != nil {
		return nil, err
	}

	switch {
	case !validDomains[parsed.Domain]:
		return nil, &ParseError{Stage: "classify", Reason: fmt.Sprintf("unknown domain %q", parsed.Domain), Raw: clip(resp.Text)}
	case !validClaimTypes[parsed.ClaimType]:
		return nil, &ParseError{Stage: "classify", Reason: fmt.Sprintf("unknown claim type %q", parsed.ClaimType), Raw: clip(resp.Text)}
	case !validComplexities[parsed.Complexity]:
		return nil, &ParseError{Stage: "classify", Reason: fmt.Sprintf("unknown complexity %q", parsed.Complexity), Raw: clip(resp.Text)}
	case !validUrgencies[parsed.Urgency]:
		return nil, &ParseError{Stage: "classify", Reason: fmt.Sprintf("unknown urgency %q", parsed.Urgency), Raw: clip(resp.Text)}
	}

	return &model.Classification{
		Domain:     parsed.Domain,
		ClaimType:  parsed.ClaimType,
		Complexity: parsed.Complexity,
		Urgency:    parsed.Urgency,
		Rationale:  strings.TrimSpace(parsed.Rationale),
	}, nil
}

// Decompose breaks a claim into atomic sub-claims with dependencies.
// Structural validation only: cycle and unknown-reference checks belong
// to the graph builder.
func (s *Stages) Decompose(ctx context.Context, claim string) ([]model.AtomicClaim, error) {
	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System: decomposerSystemPrompt,
		Prompt: decomposePrompt(claim),
	})
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	var parsed struct {
		AtomicClaims []struct {
			ID           string   `json:"id"`
			Statement    string   `json:"statement"`
			Dependencies []string `json:"dependencies"`
			Type         string   `json:"type"`
			Entities     []string `json:"entities"`
			Temporal     string   `json:"temporal"`
			Quantitative string   `json:"quantitative"`
			Priority     string   `json:"priority"`
		} `json:"atomic_claims"`
	}
	if err := decodeStage("decompose", resp.Text, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.AtomicClaims) == 0 {
		return nil, &ParseError{Stage: "decompose", Reason: "no atomic claims in response", Raw: clip(resp.Text)}
	}

	claims := make([]model.AtomicClaim, 0, len(parsed.AtomicClaims))
	for i, pc := range parsed.AtomicClaims {
		if strings.TrimSpace(pc.ID) == "" {
			return nil, &ParseError{Stage: "decompose", Reason: fmt.Sprintf("claim %d has no id", i), Raw: clip(resp.Text)}
		}
		if strings.TrimSpace(pc.Statement) == "" {
			return nil, &ParseError{Stage: "decompose", Reason: fmt.Sprintf("claim %q has no statement", pc.ID), Raw: clip(resp.Text)}
		}
		claims = append(claims, model.AtomicClaim{
			ID:           strings.TrimSpace(pc.ID),
			Statement:    strings.TrimSpace(pc.Statement),
			Type:         atomicType(pc.Type),
			Priority:     priority(pc.Priority),
			Dependencies: pc.Dependencies,
			Entities:     pc.Entities,
			Temporal:     strings.TrimSpace(pc.Temporal),
			Quantitative: strings.TrimSpace(pc.Quantitative),
		})
	}
	return claims, nil
}

// ProposeQueries asks the model for search queries covering the atomic
// claims. Queries referencing unknown claims survive here; the planner
// discards them against the real graph.
func (s *Stages) ProposeQueries(ctx context.Context, claims []model.AtomicClaim, budget int) ([]model.SearchQuery, error) {
	input, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("propose queries: encode claims: %w", err)
	}

	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System: queryGeneratorSystemPrompt(budget),
		Prompt: queryGeneratorPrompt(string(input)),
	})
	if err != nil {
		return nil, fmt.Errorf("propose queries: %w", err)
	}

	var parsed struct {
		Queries []struct {
			ID        string `json:"id"`
			Query     string `json:"query"`
			ClaimID   string `json:"claim_id"`
			QueryType string `json:"query_type"`
			Priority  string `json:"priority"`
		} `json:"queries"`
	}
	if err := decodeStage("propose queries", resp.Text, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Queries) == 0 {
		return nil, &ParseError{Stage: "propose queries", Reason: "no queries in response", Raw: clip(resp.Text)}
	}

	queries := make([]model.SearchQuery, 0, len(parsed.Queries))
	for _, pq := range parsed.Queries {
		queries = append(queries, model.SearchQuery{
			ID:       strings.TrimSpace(pq.ID),
			Query:    strings.TrimSpace(pq.Query),
			ClaimID:  strings.TrimSpace(pq.ClaimID),
			Type:     queryType(pq.QueryType),
			Priority: priority(pq.Priority),
		})
	}
	return queries, nil
}

// Narrate writes prose explaining a finished evaluation. The verdict is
// decided before this call; a narration failure degrades the report, not
// the verdict.
func (s *Stages) Narrate(ctx context.Context, claim string, eval model.Evaluation) (string, error) {
	input, err := json.MarshalIndent(struct {
		Claim      string                   `json:"claim"`
		Verdict    model.Verdict            `json:"verdict"`
		Confidence float64                  `json:"confidence"`
		SubClaims  []model.SubClaimVerdict  `json:"sub_claims"`
		Evidence   model.EvidenceAccounting `json:"evidence"`
	}{claim, eval.OverallVerdict, eval.Confidence, eval.SubClaims, eval.Evidence}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("narrate: encode evaluation: %w", err)
	}

	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System: narratorSystemPrompt,
		Prompt: fmt.Sprintf("Explain this verification result:\n\n%s", input),
	})
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}

	narrative := strings.TrimSpace(resp.Text)
	if narrative == "" {
		return "", &ParseError{Stage: "narrate", Reason: "empty narrative", Raw: clip(resp.Text)}
	}
	return narrative, nil
}

// decodeStage extracts and unmarshals the JSON object in a response
func decodeStage(stage, text string, out any) error {
	raw, ok := ExtractJSON(text)
	if !ok {
		return &ParseError{Stage: stage, Reason: "no JSON object found", Raw: clip(text)}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &ParseError{Stage: stage, Reason: err.Error(), Raw: clip(text)}
	}
	return nil
}

// atomicType normalizes the sub-claim type, defaulting to fact
func atomicType(s string) model.AtomicClaimType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "opinion":
		return model.AtomicTypeOpinion
	case "interpretation":
		return model.AtomicTypeInterpretation
	default:
		return model.AtomicTypeFact
	}
}

// priority normalizes a priority label, defaulting to medium
func priority(s string) model.Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return model.PriorityHigh
	case "low":
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

// queryType normalizes a query type label, defaulting to direct
func queryType(s string) model.QueryType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source_verification":
		return model.QuerySourceVerification
	case "expert_consensus":
		return model.QueryExpertConsensus
	case "contradiction_check":
		return model.QueryContradictionCheck
	default:
		return model.QueryDirectVerification
	}
}
