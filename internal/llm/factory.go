// internal/llm/factory.go
package llm

import (
	"triage-service/internal/common/config"
	apperrors "triage-service/internal/common/errors"
)

// Provider identifiers as they appear on the wire.
const (
	ProviderVendorA = "vendor-a" // OpenAI
	ProviderVendorB = "vendor-b" // Anthropic
)

// Purpose selects which configured model name an adapter is bound to.
type Purpose string

const (
	PurposeRouter Purpose = "router"
	PurposeAnswer Purpose = "answer"
)

// Factory builds vendor adapters keyed by (provider, purpose).
type Factory struct {
	cfg config.ProvidersConfig
}

// NewFactory creates a factory over the configured providers.
func NewFactory(cfg config.ProvidersConfig) *Factory {
	return &Factory{cfg: cfg}
}

// Client returns the adapter for the given provider and call purpose.
func (f *Factory) Client(provider string, purpose Purpose) (Client, error) {
	switch provider {
	case ProviderVendorA:
		return NewOpenAIClient(
			f.cfg.OpenAI.APIKey,
			f.cfg.OpenAI.BaseURL,
			modelFor(f.cfg.OpenAI, purpose),
		), nil
	case ProviderVendorB:
		return NewAnthropicClient(
			f.cfg.Anthropic.APIKey,
			f.cfg.Anthropic.BaseURL,
			modelFor(f.cfg.Anthropic, purpose),
		), nil
	default:
		return nil, apperrors.NewProviderUnsupportedError(provider)
	}
}

func modelFor(cfg config.ProviderConfig, purpose Purpose) string {
	if purpose == PurposeAnswer {
		return cfg.AnswerModel
	}
	return cfg.RouterModel
}
