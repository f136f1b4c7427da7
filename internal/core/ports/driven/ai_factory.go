package driven

import (
	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// GeneratorFactory creates text generators based on configuration
type GeneratorFactory interface {
	// CreateGenerator creates a generator from settings.
	// Returns nil, nil if settings are not configured.
	CreateGenerator(settings *domain.GeneratorSettings) (TextGenerator, error)
}
