package domain

import "sync"

// RuntimeConfig tracks which backends are in use and which capabilities are
// available. Generator availability can change at runtime.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	LockBackend string // "redis" or "postgres"

	// Dynamic capability flags
	generatorAvailable bool
	generatorModel     string
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(lockBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		LockBackend: lockBackend,
	}
}

// GeneratorAvailable returns whether a text generator is configured
func (c *RuntimeConfig) GeneratorAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generatorAvailable
}

// GeneratorModel returns the active generator model, or "" when unavailable
func (c *RuntimeConfig) GeneratorModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generatorModel
}

// SetGenerator updates the generator availability flag and model name
func (c *RuntimeConfig) SetGenerator(available bool, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generatorAvailable = available
	if !available {
		model = ""
	}
	c.generatorModel = model
}
