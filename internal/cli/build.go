package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/veridict/internal/cache"
	"github.com/ppiankov/veridict/internal/llm"
	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/pipeline"
	"github.com/ppiankov/veridict/internal/search"
	"github.com/ppiankov/veridict/internal/store"
)

// loadConfig builds the effective configuration: defaults, then config
// file, then environment. API keys come from the environment only.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	// Config file overrides, where present
	if v := viper.GetInt("pipeline.query_budget"); v > 0 {
		cfg.Pipeline.QueryBudget = v
	}
	if v := viper.GetInt("pipeline.workers"); v > 0 {
		cfg.Pipeline.Workers = v
	}
	if v := viper.GetDuration("pipeline.search_timeout"); v > 0 {
		cfg.Pipeline.SearchTimeout = v
	}
	if v := viper.GetInt("pipeline.min_claim_length"); v > 0 {
		cfg.Pipeline.MinClaimLength = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetInt("llm.max_tokens"); v > 0 {
		cfg.LLM.MaxTokens = v
	}
	if v := viper.GetString("search.base_url"); v != "" {
		cfg.Search.BaseURL = v
	}
	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}
	if viper.IsSet("search.cache_enabled") {
		cfg.Search.CacheEnabled = viper.GetBool("search.cache_enabled")
	}
	if v := viper.GetString("search.cache_dir"); v != "" {
		cfg.Search.CacheDir = v
	}
	if v := viper.GetDuration("search.cache_ttl"); v > 0 {
		cfg.Search.CacheTTL = v
	}
	if v := viper.GetStringMapString("credibility.domain_tiers"); len(v) > 0 {
		cfg.Credibility.DomainTiers = map[string]int{}
		for domain, tier := range v {
			var n int
			if _, err := fmt.Sscanf(tier, "%d", &n); err == nil {
				cfg.Credibility.DomainTiers[domain] = n
			}
		}
	}
	if v := viper.GetString("store.dir"); v != "" {
		cfg.Store.Dir = v
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}

	// Secrets from environment
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	cfg.Search.APIKey = os.Getenv("PERPLEXITY_API_KEY")

	return cfg
}

// buildPipeline wires the pipeline from configuration. Both external
// dependencies fail fast here: an unusable LLM or search setup should
// surface before any claim is accepted.
func buildPipeline(cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, *store.Store, error) {
	if cfg.LLM.Provider != "ollama" && cfg.LLM.APIKey == "" {
		return nil, nil, fmt.Errorf("%s API key not set (use OPENAI_API_KEY or ANTHROPIC_API_KEY)", cfg.LLM.Provider)
	}
	if cfg.Search.APIKey == "" {
		return nil, nil, fmt.Errorf("PERPLEXITY_API_KEY environment variable not set")
	}
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, fmt.Errorf("llm provider: %w", err)
	}

	var responseCache cache.Cache
	if cfg.Search.CacheEnabled {
		responseCache = cache.NewLayeredCache(
			10*time.Minute,
			cfg.Search.CacheDir,
			cfg.Search.CacheTTL,
		)
	}
	searchClient := search.NewClient(cfg.Search, responseCache)

	sessions, err := store.New(cfg.Store.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("result store: %w", err)
	}

	return pipeline.New(cfg, llm.NewStages(provider), searchClient, sessions, logger), sessions, nil
}
