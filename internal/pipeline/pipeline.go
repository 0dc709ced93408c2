// Package pipeline implements the query execution state machine (C5): an
// explicit state-enum-driven loop, not a graph framework, per the source's
// design guidance — each node is a pure step taking pipeline.State and
// returning the next node label.
package pipeline

import (
	"context"
	"log/slog"

	"research-orchestrator/internal/collector"
	pstate "research-orchestrator/internal/domain/pipeline"
	"research-orchestrator/internal/fallback"
	"research-orchestrator/internal/llm"
)

// node labels for the state machine.
type node int

const (
	nodeRoute node = iota
	nodeCollect
	nodeRetry
	nodeAnalyze
	nodeRespond
	nodeDone
)

// Pipeline wires the registry, fallback policy, and LLM gateway into one
// query-execution loop.
type Pipeline struct {
	registry *collector.Registry
	policy   *fallback.Policy
	gateway  llm.Gateway

	routingModel  string
	analysisModel string
}

// New constructs a Pipeline. routingModel/analysisModel are the default
// per-call model overrides; an explicit State.Model/AnalysisModel wins when
// set.
func New(registry *collector.Registry, policy *fallback.Policy, gateway llm.Gateway, routingModel, analysisModel string) *Pipeline {
	return &Pipeline{registry: registry, policy: policy, gateway: gateway, routingModel: routingModel, analysisModel: analysisModel}
}

// Run executes one query end to end and returns the final state. source and
// query may both be empty, in which case the router decides them from
// userMessage.
func (p *Pipeline) Run(ctx context.Context, userMessage, source, query string) pstate.State {
	state := pstate.State{
		UserMessage: userMessage,
		Source:      source,
		Query:       query,
	}

	current := nodeRoute
	for current != nodeDone {
		switch current {
		case nodeRoute:
			current = p.route(ctx, &state)
		case nodeCollect:
			current = p.collect(ctx, &state)
		case nodeRetry:
			current = p.retry(&state)
		case nodeAnalyze:
			current = p.analyze(ctx, &state)
		case nodeRespond:
			current = p.respond(&state)
		default:
			slog.Error("pipeline: unknown node, aborting", slog.Int("node", int(current)))
			current = nodeDone
		}
	}
	return state
}
