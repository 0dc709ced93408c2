package pipeline

import (
	"fmt"
	"strings"

	pstate "research-orchestrator/internal/domain/pipeline"
)

// respond assembles the caller-ready text: an uppercase source/query/model
// header, an optional "tried X first, used Y" note, the analysis, hard
// truncated to the response size cap.
func (p *Pipeline) respond(s *pstate.State) node {
	model := s.AnalysisModel
	if model == "" {
		model = p.analysisModel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s (%s)\n", strings.ToUpper(s.Source), s.Query, model)

	if len(s.TriedSources) > 1 {
		fmt.Fprintf(&b, "Tried %s first, used %s\n", s.TriedSources[0], s.Source)
	}

	b.WriteString("\n")
	b.WriteString(s.Analysis)

	s.Response = hardTruncate(b.String(), pstate.ResponseLimit)
	return nodeDone
}

func hardTruncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	const ellipsis = "..."
	cut := limit - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	return s[:cut] + ellipsis
}
