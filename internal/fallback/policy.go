// Package fallback holds the per-source ordered list of alternate sources
// the pipeline's retry node consults on a collector miss (C6). The policy
// is pure data — no priority scoring, no learning — so retry selection
// stays decidable by inspection.
package fallback

import (
	"os"

	"gopkg.in/yaml.v3"
)

// defaultChain is the fallback used for any source not present in the
// policy map.
var defaultChain = []string{"news", "reddit", "ddg_news"}

// Policy is a static source → ordered alternates mapping.
type Policy struct {
	chains map[string][]string
}

// builtin is the compiled-in default, ordered by domain similarity.
func builtin() map[string][]string {
	return map[string][]string{
		"news":           {"news_rapidapi", "ddg_news", "reddit"},
		"news_rapidapi":  {"news", "ddg_news", "reddit"},
		"weather":        {"news", "ddg"},
		"crypto":         {"cryptopanic", "ddg_news", "news"},
		"dex":            {"crypto", "cryptopanic", "ddg_news"},
		"reddit":         {"news", "ddg_news"},
		"github":         {"ddg", "news"},
		"arxiv":          {"ddg", "news", "github"},
		"stocks":         {"crypto", "news"},
		"wikipedia":      {"ddg", "news"},
		"ddg":            {"news", "wikipedia"},
		"ddg_news":       {"news", "reddit"},
		"serper":         {"ddg", "news"},
		"tmz":            {"news", "ddg_news"},
		"cryptopanic":    {"crypto", "ddg_news", "news"},
	}
}

// New returns the compiled-in policy.
func New() *Policy {
	return &Policy{chains: builtin()}
}

// LoadOverride merges a YAML file (source: [alternate, ...]) over the
// compiled-in default. A missing file is not an error — the YAML override
// is optional, the compiled-in map is the default per SPEC_FULL §2.
func LoadOverride(path string) (*Policy, error) {
	p := New()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	var override map[string][]string
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, err
	}
	for k, v := range override {
		p.chains[k] = v
	}
	return p, nil
}

// Next returns the first entry in source's fallback chain not already
// present in tried. It returns ("", false) when every candidate has been
// tried, signalling the retry node to mark the run exhausted.
func (p *Policy) Next(source string, tried []string) (string, bool) {
	chain, ok := p.chains[source]
	if !ok {
		chain = defaultChain
	}
	seen := make(map[string]bool, len(tried))
	for _, t := range tried {
		seen[t] = true
	}
	for _, candidate := range chain {
		if !seen[candidate] {
			return candidate, true
		}
	}
	return "", false
}
