package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"research-orchestrator/internal/collector"
	pstate "research-orchestrator/internal/domain/pipeline"
	"research-orchestrator/internal/llm"
)

type routerDecision struct {
	Source string `json:"source"`
	Query  string `json:"query"`
}

// route decides (source, query). If the caller pre-selected both and the
// source is a known registry key, routing is a no-op and no LLM call is
// made. A caller-supplied source that isn't registered is UnknownSource
// (spec §7 kind 7): raised synchronously here rather than silently handed
// to the LLM router, so it never gets rewritten into a different source.
// Otherwise a single low-temperature completion is asked to choose.
func (p *Pipeline) route(ctx context.Context, s *pstate.State) node {
	s.TriedSources = nil
	s.RetryCount = 0

	if s.Source != "" && s.Query != "" {
		if !p.registry.Has(s.Source) {
			s.Err = fmt.Sprintf("%s: %q", collector.ErrUnknownSource, s.Source)
			s.Invalid = true
			return nodeDone
		}
		return nodeCollect
	}

	source, query := p.routeWithLLM(ctx, s.UserMessage)
	s.Source = source
	s.Query = query
	return nodeCollect
}

func (p *Pipeline) routeWithLLM(ctx context.Context, userMessage string) (source, query string) {
	source, query = "news", userMessage

	prompt := "Pick one data source and a search query for the user's request.\n" +
		"Available sources: " + strings.Join(p.registry.Keys(), ", ") + "\n" +
		"Respond with ONLY a JSON object: {\"source\": \"...\", \"query\": \"...\"}\n\n" +
		"Request: " + userMessage

	gw, err := p.routingGateway()
	if err != nil {
		slog.Warn("pipeline: router gateway unavailable, defaulting to news", slog.Any("error", err))
		return source, query
	}
	defer gw.Close()

	resp, err := gw.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, p.routingModel, 0.1)
	if err != nil {
		slog.Warn("pipeline: router completion failed, defaulting to news", slog.Any("error", err))
		return source, query
	}

	var decision routerDecision
	raw := stripCodeFence(resp.GetText())
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		slog.Warn("pipeline: router response not parseable JSON, defaulting to news", slog.Any("error", err))
		return source, query
	}
	if decision.Source == "" || !p.registry.Has(decision.Source) {
		decision.Source = "news"
	}
	if decision.Query == "" {
		decision.Query = userMessage
	}
	return decision.Source, decision.Query
}

// routingGateway returns the shared gateway; kept as a method so a future
// per-call-fresh-client policy (per spec §5: "each call constructs a fresh
// client") can be swapped in without touching callers.
func (p *Pipeline) routingGateway() (llm.Gateway, error) {
	return p.gateway, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
