package ai

import (
	"fmt"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Ensure Factory implements GeneratorFactory
var _ driven.GeneratorFactory = (*Factory)(nil)

// Factory creates text generators based on configuration
type Factory struct{}

// NewFactory creates a new generator factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateGenerator builds the generator for the configured provider.
// Unconfigured settings return nil, nil so the runtime stays generator-less.
func (f *Factory) CreateGenerator(settings *domain.GeneratorSettings) (driven.TextGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIGenerator(settings.APIKey, settings.Model, settings.BaseURL)
	case domain.AIProviderGemini:
		return NewGeminiGenerator(settings.APIKey, settings.Model, settings.BaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
