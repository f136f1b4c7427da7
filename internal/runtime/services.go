package runtime

import (
	"sync"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Services holds the text generator, which can be swapped at runtime.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	generator driven.TextGenerator
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	if config == nil {
		config = domain.NewRuntimeConfig("")
	}
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// Generator returns the current text generator (may be nil)
func (s *Services) Generator() driven.TextGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

// RequireGenerator returns the current generator or ErrServiceUnavailable
func (s *Services) RequireGenerator() (driven.TextGenerator, error) {
	gen := s.Generator()
	if gen == nil {
		return nil, domain.ErrServiceUnavailable
	}
	return gen, nil
}

// SetGenerator replaces the text generator.
// Closes the old generator if present. Updates config flags.
func (s *Services) SetGenerator(gen driven.TextGenerator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generator != nil && s.generator != gen {
		_ = s.generator.Close()
	}

	s.generator = gen
	if gen != nil {
		s.config.SetGenerator(true, gen.Model())
	} else {
		s.config.SetGenerator(false, "")
	}
}

// Close shuts down the generator
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.generator != nil {
		err = s.generator.Close()
		s.generator = nil
	}
	s.config.SetGenerator(false, "")

	return err
}
