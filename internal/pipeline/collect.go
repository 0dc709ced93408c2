package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"research-orchestrator/internal/collector"
	pstate "research-orchestrator/internal/domain/pipeline"
)

// collectOptions is the fixed per-attempt options every pipeline collect
// call uses: limit=5, per spec §4.4.
func collectOptions() collector.Options {
	return collector.Options{Limit: 5}
}

// collect appends the current source to tried_sources, runs its collector,
// and records one of three outcomes: items, empty, or error. It never
// itself decides fallback — that is the retry node's job.
func (p *Pipeline) collect(ctx context.Context, s *pstate.State) node {
	s.TriedSources = append(s.TriedSources, s.Source)

	col, err := p.registry.Get(s.Source)
	if err != nil {
		// A caller-supplied unknown source never reaches here: route
		// rejects that synchronously before collect ever runs. This only
		// fires when the fallback policy names a source that isn't
		// currently registered (e.g. its API credential is missing), which
		// is a soft miss for the ordinary retry flow, not a validation error.
		s.Err = fmt.Sprintf("Unknown source: %s", s.Source)
		s.Items = nil
		return p.afterCollect(s)
	}
	defer func() {
		if cerr := col.Close(); cerr != nil {
			slog.Warn("pipeline: collector close failed", slog.String("source", s.Source), slog.Any("error", cerr))
		}
	}()

	items, err := col.Collect(ctx, s.Query, collectOptions())
	switch {
	case err != nil:
		s.Err = fmt.Sprintf("Failed: %s (%s)", s.Source, err.Error())
		s.Items = nil
	case len(items) == 0:
		s.Err = fmt.Sprintf("No results from %s", s.Source)
		s.Items = nil
	default:
		s.Err = ""
		s.Items = items
	}
	return p.afterCollect(s)
}

// afterCollect is the conditional edge out of collect: items win outright;
// otherwise fall through to retry unless the cap is already exhausted.
func (p *Pipeline) afterCollect(s *pstate.State) node {
	if len(s.Items) > 0 {
		return nodeAnalyze
	}
	if s.RetryCount >= pstate.MaxRetries {
		return nodeAnalyze
	}
	return nodeRetry
}
