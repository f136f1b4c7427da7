package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/metrics"
	"github.com/tech4humanity/t4h-core/internal/runtime"
)

// generationTimeout caps one generator round trip
const generationTimeout = 30 * time.Second

// generateJSON runs req on the current generator and decodes the JSON object
// into out. Decode failures are reported as domain.ErrMalformedResponse.
func generateJSON(ctx context.Context, svcs *runtime.Services, m *metrics.Metrics, req domain.GenerationRequest, out any) error {
	gen, err := requireGenerator(svcs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	raw, err := gen.Generate(ctx, req)
	if err != nil {
		m.RecordGeneration(string(gen.Provider()), false)
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		m.RecordGeneration(string(gen.Provider()), false)
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	m.RecordGeneration(string(gen.Provider()), true)
	return nil
}

// requireGenerator returns the configured generator or ErrServiceUnavailable
func requireGenerator(svcs *runtime.Services) (driven.TextGenerator, error) {
	if svcs == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return svcs.RequireGenerator()
}
