// Package app wires the configuration surface (C10) into the registry,
// fallback policy, LLM gateway, and pipeline every cmd entrypoint needs.
// Three binaries (cmd/api, cmd/worker, cmd/query) share this construction
// the same way the teacher's cmd/worker and cmd/api both call into
// pgRepo.NewSourceRepo/NewArticleRepo rather than each hand-rolling it.
package app

import (
	"research-orchestrator/internal/collector"
	"research-orchestrator/internal/config"
	"research-orchestrator/internal/fallback"
	"research-orchestrator/internal/llm"
	"research-orchestrator/internal/pipeline"
)

// BuildRegistry constructs the collector registry from optional credentials.
// A collector needing a missing credential is simply omitted (the router and
// fallback policy treat it as if it never existed).
func BuildRegistry(cfg *config.CollectorConfig) *collector.Registry {
	ctors := map[string]collector.Constructor{
		"news":        func() collector.Collector { return collector.NewNews() },
		"weather":     func() collector.Collector { return collector.NewWeather() },
		"crypto":      func() collector.Collector { return collector.NewCrypto() },
		"dex":         func() collector.Collector { return collector.NewDex() },
		"reddit":      func() collector.Collector { return collector.NewReddit() },
		"arxiv":       func() collector.Collector { return collector.NewArxiv() },
		"stocks":      func() collector.Collector { return collector.NewStocks() },
		"wikipedia":   func() collector.Collector { return collector.NewWikipedia() },
		"tmz":         func() collector.Collector { return collector.NewTMZ() },
		"cryptopanic": func() collector.Collector { return collector.NewCryptoPanic() },
		"ddg":         func() collector.Collector { return collector.NewDDG() },
		"ddg_news":    func() collector.Collector { return collector.NewDDGNews() },
		// github has no hard credential requirement: NewGitHub degrades to
		// unauthenticated (lower rate limit) when token is empty.
		"github": func() collector.Collector { return collector.NewGitHub(cfg.GitHubToken) },
	}

	if cfg.SerperAPIKey != "" {
		ctors["serper"] = func() collector.Collector { return collector.NewSerper(cfg.SerperAPIKey) }
	}
	if cfg.RapidAPIKey != "" {
		ctors["news_rapidapi"] = func() collector.Collector {
			return collector.NewNewsRapidAPI(cfg.RapidAPIKey, cfg.RapidAPIHost)
		}
	}

	return collector.New(ctors)
}

// BuildFallbackPolicy loads the compiled-in default chains, applying an
// optional YAML override when cfg.OverridePath is set.
func BuildFallbackPolicy(cfg *config.FallbackConfig) (*fallback.Policy, error) {
	return fallback.LoadOverride(cfg.OverridePath)
}

// BuildGateway constructs the LLM Gateway from the loaded config.
func BuildGateway(cfg *config.LLMConfig) (llm.Gateway, error) {
	return llm.New(llm.Config{
		Provider:           cfg.Provider,
		LocalBaseURL:       cfg.LocalBaseURL,
		LocalRoutingModel:  cfg.LocalRoutingModel,
		LocalAnalysisModel: cfg.LocalAnalysisModel,
		CloudBaseURL:       cfg.CloudBaseURL,
		CloudAPIKey:        cfg.CloudAPIKey,
		CloudModel:         cfg.CloudModel,
	})
}

// BuildPipeline wires registry, policy, and gateway into a Pipeline.
func BuildPipeline(registry *collector.Registry, policy *fallback.Policy, gateway llm.Gateway, llmCfg *config.LLMConfig) *pipeline.Pipeline {
	routingModel := llmCfg.LocalRoutingModel
	analysisModel := llmCfg.LocalAnalysisModel
	if llmCfg.Provider == "cloud" {
		routingModel = llmCfg.CloudModel
		analysisModel = llmCfg.CloudModel
	}
	return pipeline.New(registry, policy, gateway, routingModel, analysisModel)
}
