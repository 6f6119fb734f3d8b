package model

import "time"

// QueryType classifies the verification angle of a search query
type QueryType string

const (
	QueryDirectVerification QueryType = "direct_verification" // verify the claim itself
	QuerySourceVerification QueryType = "source_verification" // find official statements
	QueryExpertConsensus    QueryType = "expert_consensus"    // scientific/expert agreement
	QueryContradictionCheck QueryType = "contradiction_check" // look for debunks
)

// Rank orders query types within a claim: direct verification runs before
// contradiction checks when the budget is tight.
func (t QueryType) Rank() int {
	switch t {
	case QueryDirectVerification:
		return 0
	case QuerySourceVerification:
		return 1
	case QueryExpertConsensus:
		return 2
	case QueryContradictionCheck:
		return 3
	default:
		return 2
	}
}

// SearchQuery is a single planned search. Immutable once planned.
type SearchQuery struct {
	ID       string    `json:"id"`
	Query    string    `json:"query"`
	ClaimID  string    `json:"claim_id"`
	Type     QueryType `json:"query_type"`
	Priority Priority  `json:"priority"`
}

// SearchResult is one hit returned by the search provider
type SearchResult struct {
	Position int             `json:"position"` // 1-based rank in provider response
	Title    string          `json:"title"`
	URL      string          `json:"url"`
	Domain   string          `json:"domain"`
	Snippet  string          `json:"snippet,omitempty"`
	Tier     CredibilityTier `json:"credibility_tier,omitempty"`
}

// QueryOutcome records the result of executing one SearchQuery. Exactly one
// outcome exists per submitted query, whether it succeeded, failed, timed
// out, or was cancelled.
type QueryOutcome struct {
	QueryID  string         `json:"query_id"`
	Query    string         `json:"query"`
	ClaimID  string         `json:"claim_id"`
	Type     QueryType      `json:"query_type"`
	Priority Priority       `json:"priority"`
	Success  bool           `json:"success"`
	Results  []SearchResult `json:"results,omitempty"`
	Error    string         `json:"error,omitempty"`
	Latency  time.Duration  `json:"latency_ns"`
}

// CredibilityTier ranks an evidence source's domain, 1 (highest) to 4
type CredibilityTier int

const (
	TierAuthoritative CredibilityTier = 1 // government, education, major journals
	TierMajorNews     CredibilityTier = 2 // established news outlets
	TierReference     CredibilityTier = 3 // recognized reference and expert sources
	TierDefault       CredibilityTier = 4 // everything else, incl. unknown domains
)

func (t CredibilityTier) String() string {
	switch t {
	case TierAuthoritative:
		return "authoritative"
	case TierMajorNews:
		return "major_news"
	case TierReference:
		return "reference"
	default:
		return "default"
	}
}
