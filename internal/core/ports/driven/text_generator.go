package driven

import (
	"context"
	"encoding/json"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// TextGenerator sends a structured prompt to a language model and returns
// the JSON object it produced.
//
// Implementations must map provider failures onto the domain sentinels:
// domain.ErrRateLimited for throttling, domain.ErrMalformedResponse when the
// output is not a JSON object, and domain.ErrGenerationFailed otherwise.
type TextGenerator interface {
	// Generate runs one prompt. There is no retry.
	Generate(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error)

	// Provider returns the provider identifier
	Provider() domain.AIProvider

	// Model returns the model name being used
	Model() string

	// Close releases resources held by the generator
	Close() error
}
