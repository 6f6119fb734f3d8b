// Package score maps evidence source domains to credibility tiers.
// Scoring is pure and total: every input string, including empty and
// malformed ones, maps to exactly one tier.
package score

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ppiankov/veridict/internal/model"
)

// Tier-1 suffixes: institutional TLDs matched by suffix
var tier1Suffixes = []string{
	".gov",
	".mil",
	".edu",
	".ac.uk",
	".gov.uk",
	".int",
}

// Tier-1 domains: major scientific journals and official statistics
var tier1Domains = []string{
	"nature.com",
	"science.org",
	"nejm.org",
	"thelancet.com",
	"bmj.com",
	"pnas.org",
	"cell.com",
	"nih.gov",
	"cdc.gov",
	"nasa.gov",
	"who.int",
	"un.org",
	"europa.eu",
	"worldbank.org",
	"oecd.org",
}

// Tier-2 domains: major news outlets
var tier2Domains = []string{
	"reuters.com",
	"apnews.com",
	"bbc.com",
	"bbc.co.uk",
	"nytimes.com",
	"washingtonpost.com",
	"theguardian.com",
	"wsj.com",
	"economist.com",
	"ft.com",
	"npr.org",
	"aljazeera.com",
	"bloomberg.com",
	"cnn.com",
	"nbcnews.com",
	"cbsnews.com",
	"abcnews.go.com",
}

// Tier-3 domains: recognized reference and fact-checking sources
var tier3Domains = []string{
	"wikipedia.org",
	"britannica.com",
	"snopes.com",
	"factcheck.org",
	"politifact.com",
	"fullfact.org",
	"sciencedirect.com",
	"springer.com",
	"jstor.org",
	"arxiv.org",
	"scholar.google.com",
	"nationalgeographic.com",
	"smithsonianmag.com",
	"scientificamerican.com",
}

// Scorer classifies source domains into credibility tiers 1-4.
// Configured overrides are checked before the built-in lists.
type Scorer struct {
	overrides map[string]model.CredibilityTier
}

// NewScorer creates a scorer with optional per-domain overrides from config
func NewScorer(cfg model.CredibilityConfig) *Scorer {
	s := &Scorer{overrides: make(map[string]model.CredibilityTier)}
	for domain, tier := range cfg.DomainTiers {
		if tier >= 1 && tier <= 4 {
			s.overrides[strings.ToLower(domain)] = model.CredibilityTier(tier)
		}
	}
	return s
}

// Tier maps a domain string to its credibility tier. Deterministic and
// total: unknown, empty, and unparseable inputs are TierDefault.
func (s *Scorer) Tier(domain string) model.CredibilityTier {
	host := normalizeHost(domain)
	if host == "" {
		return model.TierDefault
	}

	registrable := registrableDomain(host)

	if tier, ok := s.overrides[registrable]; ok {
		return tier
	}
	if tier, ok := s.overrides[host]; ok {
		return tier
	}

	for _, suffix := range tier1Suffixes {
		if strings.HasSuffix(host, suffix) {
			return model.TierAuthoritative
		}
	}
	if matchesDomain(host, registrable, tier1Domains) {
		return model.TierAuthoritative
	}
	if matchesDomain(host, registrable, tier2Domains) {
		return model.TierMajorNews
	}
	if matchesDomain(host, registrable, tier3Domains) {
		return model.TierReference
	}

	return model.TierDefault
}

// Weight converts a tier into an evidence weight. Tier 1 counts four
// times as much as tier 4.
func Weight(tier model.CredibilityTier) float64 {
	switch tier {
	case model.TierAuthoritative:
		return 1.0
	case model.TierMajorNews:
		return 0.75
	case model.TierReference:
		return 0.5
	default:
		return 0.25
	}
}

// normalizeHost lowercases and strips scheme, path, port, and leading www
func normalizeHost(domain string) string {
	host := strings.TrimSpace(strings.ToLower(domain))
	if host == "" {
		return ""
	}
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.Trim(host, ".")
	return host
}

// registrableDomain reduces a host to its eTLD+1 (bbc.co.uk for
// news.bbc.co.uk) so subdomains inherit the parent's tier.
func registrableDomain(host string) string {
	if reg, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return reg
	}
	return host
}

func matchesDomain(host, registrable string, list []string) bool {
	for _, d := range list {
		if host == d || registrable == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
