// Package config is the enumerated configuration surface (C10) every other
// component reads from. Loaders follow the teacher's internal/config/ai.go
// pattern: one LoadXConfig function per concern, validated before use, built
// from pkg/config's environment helpers.
package config

import (
	"fmt"
	"time"

	pkgconfig "research-orchestrator/pkg/config"
)

// LLMConfig selects and parameterizes the LLM Gateway provider (C4).
type LLMConfig struct {
	Provider string // "local" or "cloud"

	LocalBaseURL       string
	LocalRoutingModel  string
	LocalAnalysisModel string

	CloudAPIKey  string
	CloudBaseURL string
	CloudModel   string
}

// LoadLLMConfig reads the provider selection and both providers' parameters.
// Validate is deliberately lenient about the *unselected* provider's fields
// — only the chosen provider's required credentials are enforced, and only
// at gateway construction time (ConfigMissing, per spec §7), not here.
func LoadLLMConfig() (*LLMConfig, error) {
	cfg := &LLMConfig{
		Provider:           pkgconfig.GetEnvString("LLM_PROVIDER", "local"),
		LocalBaseURL:       pkgconfig.GetEnvString("LOCAL_BASE_URL", "http://localhost:11434"),
		LocalRoutingModel:  pkgconfig.GetEnvString("LOCAL_ROUTING_MODEL", "llama3.2:1b"),
		LocalAnalysisModel: pkgconfig.GetEnvString("LOCAL_ANALYSIS_MODEL", "llama3.2"),
		CloudAPIKey:        pkgconfig.GetEnvString("CLOUD_API_KEY", ""),
		CloudBaseURL:       pkgconfig.GetEnvString("CLOUD_BASE_URL", "https://openrouter.ai/api/v1"),
		CloudModel:         pkgconfig.GetEnvString("CLOUD_MODEL", "openai/gpt-4o-mini"),
	}
	if cfg.Provider != "local" && cfg.Provider != "cloud" {
		return nil, fmt.Errorf("LLM_PROVIDER must be \"local\" or \"cloud\", got %q", cfg.Provider)
	}
	return cfg, nil
}

// CollectorConfig carries optional credentials and per-source query
// defaults. Collectors degrade or refuse gracefully when a key is absent
// (they are simply not registered by the factory).
type CollectorConfig struct {
	GitHubToken   string
	SerperAPIKey  string
	RapidAPIKey   string
	RapidAPIHost  string

	WeatherLocations []string
	StockSymbols     []string
	RedditSubreddits []string
	CryptoMode       string
}

// LoadCollectorConfig reads optional credentials and per-collector query
// defaults used by the daily scheduler's source list.
func LoadCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		GitHubToken:      pkgconfig.GetEnvString("GITHUB_TOKEN", ""),
		SerperAPIKey:     pkgconfig.GetEnvString("SERPER_API_KEY", ""),
		RapidAPIKey:      pkgconfig.GetEnvString("RAPIDAPI_KEY", ""),
		RapidAPIHost:     pkgconfig.GetEnvString("RAPIDAPI_HOST", "real-time-news-data.p.rapidapi.com"),
		WeatherLocations: pkgconfig.GetEnvStringList("WEATHER_LOCATIONS", []string{"London"}),
		StockSymbols:     pkgconfig.GetEnvStringList("STOCK_SYMBOLS", []string{"market"}),
		RedditSubreddits: pkgconfig.GetEnvStringList("REDDIT_SUBREDDITS", []string{"r/technology"}),
		CryptoMode:       pkgconfig.GetEnvString("CRYPTO_MODE", "trending"),
	}
}

// SchedulerConfig parameterizes the Daily Scheduler (C8).
type SchedulerConfig struct {
	Hour        int
	Minute      int
	Sources     []string
	GroupSinkID string
}

// LoadSchedulerConfig reads the wall-clock fire time and source list.
func LoadSchedulerConfig() (*SchedulerConfig, error) {
	cfg := &SchedulerConfig{
		Hour:        pkgconfig.GetEnvInt("DAILY_HOUR", 7),
		Minute:      pkgconfig.GetEnvInt("DAILY_MINUTE", 0),
		Sources:     pkgconfig.GetEnvStringList("DAILY_SOURCES", []string{"news", "weather", "crypto", "github"}),
		GroupSinkID: pkgconfig.GetEnvString("GROUP_SINK_ID", ""),
	}
	if cfg.Hour < 0 || cfg.Hour > 23 {
		return nil, fmt.Errorf("DAILY_HOUR must be 0-23, got %d", cfg.Hour)
	}
	if cfg.Minute < 0 || cfg.Minute > 59 {
		return nil, fmt.Errorf("DAILY_MINUTE must be 0-59, got %d", cfg.Minute)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("DAILY_SOURCES must name at least one source")
	}
	return cfg, nil
}

// DatabaseConfig carries the query-log/subscriber-store connection string.
type DatabaseConfig struct {
	URL string
}

// LoadDatabaseConfig reads DATABASE_URL.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	url := pkgconfig.GetEnvString("DATABASE_URL", "")
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	return &DatabaseConfig{URL: url}, nil
}

// FallbackConfig points at the optional YAML override for the fallback
// policy (C6). An empty path means "use the compiled-in default only".
type FallbackConfig struct {
	OverridePath string
}

// LoadFallbackConfig reads the optional override file path.
func LoadFallbackConfig() *FallbackConfig {
	return &FallbackConfig{OverridePath: pkgconfig.GetEnvString("FALLBACK_POLICY_FILE", "")}
}

// RequestTimeout is the default per-call timeout applied where a component
// does not carry its own (e.g. the CLI query runner).
func RequestTimeout() time.Duration {
	return pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
}
