// Package pipeline defines the state threaded through a single query execution.
package pipeline

import "research-orchestrator/internal/domain/item"

// MaxRetries is the hard cap on fallback attempts after the first collect.
// A run may therefore visit at most MaxRetries+1 distinct sources.
const MaxRetries = 2

// RetryExhausted is the sentinel retry_count value the retry node sets when
// the fallback chain for the original source is out of untried entries. It
// coexists with the MaxRetries cap on purpose: either guard can terminate
// the loop, and both are preserved rather than collapsed into one.
const RetryExhausted = 99

// ResponseLimit is the hard character cap on the final response text.
const ResponseLimit = 4096

// State is the data a single pipeline execution carries from route through
// respond. Each execution owns its own State; nothing here is shared across
// concurrent runs.
type State struct {
	UserMessage string
	Source      string
	Query       string
	Items       []item.CollectedItem
	Analysis    string
	Response    string
	Err         string

	TriedSources []string
	RetryCount   int

	Model         string
	AnalysisModel string

	// Invalid marks a synchronous validation failure raised by route (e.g.
	// UnknownSource for a caller-supplied source) rather than an ordinary
	// collection miss. Err carries the message; Response is left empty —
	// callers must surface this as a request error, not a 200 response.
	Invalid bool
}

// Done reports whether the retry loop must stop trying fallbacks: either the
// attempt cap has been reached or the retry node found no untried fallback.
func (s *State) Done() bool {
	return s.RetryCount >= MaxRetries || s.RetryCount == RetryExhausted
}
