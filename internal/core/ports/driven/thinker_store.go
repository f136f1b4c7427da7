package driven

import (
	"context"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// ThinkerStore handles thinker profile persistence (PostgreSQL)
type ThinkerStore interface {
	// Get retrieves a thinker by ID
	Get(ctx context.Context, id string) (*domain.Thinker, error)

	// List retrieves all thinkers ordered by name
	List(ctx context.Context) ([]*domain.Thinker, error)

	// ListAligned retrieves thinkers that have a work family, ordered by name
	ListAligned(ctx context.Context) ([]*domain.Thinker, error)

	// Save creates or updates a thinker
	Save(ctx context.Context, thinker *domain.Thinker) error

	// SaveEnrichment writes only the generated profile fields
	SaveEnrichment(ctx context.Context, id string, enrichment domain.ThinkerEnrichment, at time.Time) error

	// SaveAlignment writes only the work family fields
	SaveAlignment(ctx context.Context, alignment *domain.Alignment, at time.Time) error

	// Delete deletes a thinker
	Delete(ctx context.Context, id string) error
}

// PersonaStore handles Neural Ennead persona persistence (PostgreSQL)
type PersonaStore interface {
	// UpsertBatch inserts or updates personas keyed on their code
	UpsertBatch(ctx context.Context, personas []*domain.Persona) error

	// GetByCode retrieves a persona by its code
	GetByCode(ctx context.Context, code string) (*domain.Persona, error)

	// List retrieves personas ordered by code. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]*domain.Persona, error)

	// Count returns the number of stored personas
	Count(ctx context.Context) (int, error)
}
