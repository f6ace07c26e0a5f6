package ai

import (
	"fmt"

	"github.com/taskflow-ai/taskflow/internal/config"
)

// NewProvider builds the configured Provider implementation. Backend
// selection happens here, once, at construction time.
func NewProvider(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Backend {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case "cli":
		args := cfg.Args
		if len(args) == 0 {
			args = []string{"generate", "--model", cfg.Model}
		}
		return NewCLIProvider(cfg.Command, args, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported provider backend: %q", cfg.Backend)
	}
}
