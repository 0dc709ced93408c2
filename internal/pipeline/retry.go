package pipeline

import (
	pstate "research-orchestrator/internal/domain/pipeline"
)

// retry consults the fallback policy for the originally-chosen source and
// picks the first untried alternate. If none remains it sets RetryCount to
// the exhaustion sentinel rather than merely leaving the cap comparison to
// do the work — both guards are preserved, per spec §9's open question.
func (p *Pipeline) retry(s *pstate.State) node {
	original := s.TriedSources[0]

	next, ok := p.policy.Next(original, s.TriedSources)
	if !ok {
		s.RetryCount = pstate.RetryExhausted
		return nodeAnalyze
	}

	s.Source = next
	s.Err = ""
	s.RetryCount++
	return nodeCollect
}
