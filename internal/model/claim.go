package model

import "time"

// Claim is the original statement submitted for verification.
// It is created once per session and never mutated after classification.
type Claim struct {
	Text           string          `json:"text"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	Classification *Classification `json:"classification,omitempty"`
}

// Classification is the multi-dimensional label produced by the
// classification stage.
type Classification struct {
	Domain     string `json:"domain"`     // Politics, Health, Science, Economics, Social, Other
	ClaimType  string `json:"claim_type"` // Factual, Opinion, Prediction, Satire, Mixed
	Complexity string `json:"complexity"` // Simple, Compound, Complex
	Urgency    string `json:"urgency"`    // High, Medium, Low
	Rationale  string `json:"rationale,omitempty"`
}

// AtomicClaimType categorizes an atomic sub-claim
type AtomicClaimType string

const (
	AtomicTypeFact           AtomicClaimType = "fact"
	AtomicTypeOpinion        AtomicClaimType = "opinion"
	AtomicTypeInterpretation AtomicClaimType = "interpretation"
)

// Priority ranks how central a claim or query is to the verification
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns a numeric rank for sorting (lower = more important)
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Weight returns the aggregation weight of this priority
func (p Priority) Weight() float64 {
	switch p {
	case PriorityHigh:
		return 1.5
	case PriorityLow:
		return 0.5
	default:
		return 1.0
	}
}

// AtomicClaim is a minimal, independently verifiable statement extracted
// from the original claim by the decomposition stage. Immutable once built.
type AtomicClaim struct {
	ID           string          `json:"id"`
	Statement    string          `json:"statement"`
	Type         AtomicClaimType `json:"type"`
	Priority     Priority        `json:"priority"`
	Dependencies []string        `json:"dependencies,omitempty"` // ids of claims this one assumes true
	Entities     []string        `json:"entities,omitempty"`
	Temporal     string          `json:"temporal,omitempty"`     // date or time period, if relevant
	Quantitative string          `json:"quantitative,omitempty"` // numbers/statistics, if present
}

// IsFoundational reports whether the claim has no dependencies
func (c AtomicClaim) IsFoundational() bool {
	return len(c.Dependencies) == 0
}
