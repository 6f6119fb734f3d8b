package model

import "time"

// Config holds all veridict tunables. It is built once (defaults, then
// config file, then env and flags) and passed into constructors; nothing
// reads globals.
type Config struct {
	Pipeline    PipelineConfig    `yaml:"pipeline" json:"pipeline"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Search      SearchConfig      `yaml:"search" json:"search"`
	Credibility CredibilityConfig `yaml:"credibility" json:"credibility"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	Server      ServerConfig      `yaml:"server" json:"server"`
}

// PipelineConfig controls the verification pipeline itself
type PipelineConfig struct {
	QueryBudget    int           `yaml:"query_budget" json:"query_budget"`         // max planned search queries
	Workers        int           `yaml:"workers" json:"workers"`                   // concurrent search calls
	SearchTimeout  time.Duration `yaml:"search_timeout" json:"search_timeout"`     // per-query bound
	MinClaimLength int           `yaml:"min_claim_length" json:"min_claim_length"` // shorter claims are rejected
}

// LLMConfig configures the text-generation provider
type LLMConfig struct {
	Provider    string  `yaml:"provider" json:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" json:"model"`
	APIKey      string  `yaml:"-" json:"-"` // from env, never serialized
	BaseURL     string  `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout     int     `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// SearchConfig configures the search provider client
type SearchConfig struct {
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	APIKey            string        `yaml:"-" json:"-"`
	MaxResults        int           `yaml:"max_results" json:"max_results"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
	CacheEnabled      bool          `yaml:"cache_enabled" json:"cache_enabled"`
	CacheDir          string        `yaml:"cache_dir" json:"cache_dir"`
	CacheTTL          time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// CredibilityConfig allows per-deployment tier overrides
type CredibilityConfig struct {
	// DomainTiers maps a registrable domain to an explicit tier (1-4),
	// checked before the built-in lists.
	DomainTiers map[string]int `yaml:"domain_tiers,omitempty" json:"domain_tiers,omitempty"`
}

// StoreConfig configures session persistence
type StoreConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			QueryBudget:    10,
			Workers:        3,
			SearchTimeout:  30 * time.Second,
			MinClaimLength: 5,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60,
			MaxTokens:   4096,
			Temperature: 0.3,
		},
		Search: SearchConfig{
			BaseURL:           "https://api.perplexity.ai/search",
			MaxResults:        10,
			RequestsPerSecond: 5,
			Burst:             5,
			CacheEnabled:      true,
			CacheDir:          defaultCacheDir(),
			CacheTTL:          time.Hour,
		},
		Store: StoreConfig{
			Dir: "verification_results",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

func defaultCacheDir() string {
	return ".veridict-cache"
}
