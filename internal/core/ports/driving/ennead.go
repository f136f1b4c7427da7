package driving

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// EnneadService manages Neural Ennead personas and team assembly
type EnneadService interface {
	// SeedPersonas generates and upserts all 729 personas
	SeedPersonas(ctx context.Context) (*domain.SeedResult, error)

	// ListPersonas returns stored personas ordered by code
	ListPersonas(ctx context.Context, limit int) ([]*domain.Persona, error)

	// AssembleTeam picks the best aligned thinker for each work family
	AssembleTeam(ctx context.Context) (*domain.Team, error)
}
