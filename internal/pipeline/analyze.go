package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	pstate "research-orchestrator/internal/domain/pipeline"
	"research-orchestrator/internal/llm"
)

const analysisCharLimit = 3000

// formattingContract describes the host chat surface's markup conventions
// and the required section skeleton. Kept short and explicit, per spec
// §4.4 — "no heading markers the surface does not support".
const formattingContract = "Use *bold* for emphasis, _italic_ sparingly, and `code` for identifiers. " +
	"Use a leading bullet (-) for list items. Do not use markdown heading markers (#, ##). " +
	"Structure the reply as: Key Takeaway, then Highlights, then Sources. " +
	"Keep the whole reply under 3000 characters."

// analyze builds a synthesis prompt from the collected items and sends it
// to the LLM Gateway. On error or empty items it skips the LLM call
// entirely; on LLM failure it falls back to a deterministic assembly.
func (p *Pipeline) analyze(ctx context.Context, s *pstate.State) node {
	if s.Err != "" || len(s.Items) == 0 {
		if s.Err != "" {
			s.Analysis = s.Err
		} else {
			s.Analysis = "No data to analyze."
		}
		return nodeRespond
	}

	prompt := buildAnalysisPrompt(s)
	gw, err := p.routingGateway()
	if err != nil {
		s.Analysis = deterministicAnalysis(s)
		return nodeRespond
	}
	resp, err := gw.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, s.AnalysisModel, 0.4)
	if err != nil {
		slog.Warn("pipeline: analysis completion failed, using deterministic fallback", slog.Any("error", err))
		s.Analysis = deterministicAnalysis(s)
		return nodeRespond
	}

	s.Analysis = truncateText(resp.GetText(), analysisCharLimit)
	return nodeRespond
}

func buildAnalysisPrompt(s *pstate.State) string {
	var b strings.Builder
	b.WriteString(formattingContract)
	b.WriteString("\n\nItems:\n")
	for i, it := range s.Items {
		if i >= 5 {
			break
		}
		content := it.Content
		if len(content) > 500 {
			content = content[:500]
		}
		fmt.Fprintf(&b, "\n%d. %s\n%s\n%s\n", i+1, it.Title, content, it.URL)
	}
	return b.String()
}

// deterministicAnalysis is the no-LLM fallback: bulleted titles with
// markdown links, used when the synthesizer itself is unavailable.
func deterministicAnalysis(s *pstate.State) string {
	var b strings.Builder
	b.WriteString("Key Takeaway: ")
	if len(s.Items) > 0 {
		b.WriteString(s.Items[0].Title)
	}
	b.WriteString("\n\nHighlights:\n")
	for i, it := range s.Items {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", it.Title)
	}
	b.WriteString("\nSources:\n")
	for i, it := range s.Items {
		if i >= 5 {
			break
		}
		if it.URL != "" {
			fmt.Fprintf(&b, "- [%s](%s)\n", it.Title, it.URL)
		}
	}
	return truncateText(b.String(), analysisCharLimit)
}

func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
