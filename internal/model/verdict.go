package model

// Verdict is one of six categorical outcomes describing how well a claim
// is supported by the gathered evidence.
type Verdict string

const (
	VerdictTrue          Verdict = "TRUE"
	VerdictFalse         Verdict = "FALSE"
	VerdictPartiallyTrue Verdict = "PARTIALLY_TRUE"
	VerdictMisleading    Verdict = "MISLEADING"
	VerdictUnverified    Verdict = "UNVERIFIED"
	VerdictUnsupported   Verdict = "UNSUPPORTED"
)

// Valid reports whether v is one of the six enumerated categories
func (v Verdict) Valid() bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictPartiallyTrue,
		VerdictMisleading, VerdictUnverified, VerdictUnsupported:
		return true
	}
	return false
}

// DependencyStatus describes the state of a claim's dependency chain
type DependencyStatus string

const (
	DependencyVerified DependencyStatus = "verified" // all dependencies hold
	DependencyBroken   DependencyStatus = "broken"   // a dependency is refuted or unverifiable
	DependencyUnknown  DependencyStatus = "unknown"  // foundational claim, nothing to check
)

// SubClaimVerdict is the per-atomic-claim verdict
type SubClaimVerdict struct {
	ClaimID          string           `json:"claim_id"`
	Statement        string           `json:"statement"`
	Verdict          Verdict          `json:"verdict"`
	Confidence       float64          `json:"confidence"` // [0,1]
	SupportingCount  int              `json:"supporting_count"`
	RefutingCount    int              `json:"refuting_count"`
	SupportingWeight float64          `json:"supporting_weight"`
	RefutingWeight   float64          `json:"refuting_weight"`
	DependencyStatus DependencyStatus `json:"dependency_status"`
}

// BrokenDependency flags a dependency edge that failed verification
type BrokenDependency struct {
	ClaimID      string  `json:"claim_id"`      // the derived claim
	DependencyID string  `json:"dependency_id"` // the dependency that broke
	Reason       Verdict `json:"reason"`        // dependency's verdict
}

// DependencyAnalysis summarizes dependency-chain integrity
type DependencyAnalysis struct {
	FoundationalVerified bool               `json:"foundational_claims_verified"`
	Broken               []BrokenDependency `json:"broken_dependencies,omitempty"`
	Notes                string             `json:"notes,omitempty"`
}

// EvidenceAccounting makes degraded evidence volume visible to callers
type EvidenceAccounting struct {
	QueriesIssued    int `json:"queries_issued"`
	QueriesSucceeded int `json:"queries_succeeded"`
	QueriesFailed    int `json:"queries_failed"`
	ResultCount      int `json:"result_count"`
}

// Evaluation is the synthesized verdict for one verification session
type Evaluation struct {
	OverallVerdict Verdict            `json:"overall_verdict"`
	Confidence     float64            `json:"confidence_score"` // [0,1]
	Summary        string             `json:"summary"`
	KeyFindings    []string           `json:"key_findings,omitempty"`
	SubClaims      []SubClaimVerdict  `json:"sub_claim_verdicts"`
	Dependencies   DependencyAnalysis `json:"dependency_analysis"`
	Evidence       EvidenceAccounting `json:"evidence_accounting"`
	Narrative      string             `json:"narrative,omitempty"` // optional LLM prose, never affects verdict
}
