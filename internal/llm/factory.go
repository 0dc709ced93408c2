package llm

import "fmt"

// Config selects and parameterizes one provider. Exactly one of the two
// provider parameter groups is used, per Provider.
type Config struct {
	Provider string // "local" or "cloud"

	LocalBaseURL       string
	LocalRoutingModel  string
	LocalAnalysisModel string

	CloudBaseURL string
	CloudAPIKey  string
	CloudModel   string
}

// New builds the configured Gateway. It fails loudly — at construction,
// never per-request — if the selected provider is missing a required
// credential (ConfigMissing, per spec §7).
func New(cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case "local":
		if cfg.LocalBaseURL == "" {
			return nil, fmt.Errorf("llm: local provider requires LocalBaseURL")
		}
		return NewLocal(cfg.LocalBaseURL, cfg.LocalRoutingModel, cfg.LocalAnalysisModel), nil
	case "cloud":
		if cfg.CloudAPIKey == "" {
			return nil, fmt.Errorf("llm: cloud provider requires CloudAPIKey")
		}
		if cfg.CloudBaseURL == "" {
			return nil, fmt.Errorf("llm: cloud provider requires CloudBaseURL")
		}
		return NewCloud(cfg.CloudBaseURL, cfg.CloudAPIKey, cfg.CloudModel), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q (want \"local\" or \"cloud\")", cfg.Provider)
	}
}
