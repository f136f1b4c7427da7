package driving

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// ThinkerService enriches thinker profiles and aligns them to work families
type ThinkerService interface {
	// EnrichThinker generates bio, key works and domains for a thinker
	EnrichThinker(ctx context.Context, thinkerID string) (*domain.Thinker, error)

	// AlignThinker pre-scores the thinker against every work family, then
	// asks the generator to choose among the top candidates
	AlignThinker(ctx context.Context, thinkerID string) (*domain.Alignment, error)

	// AlignAll aligns every thinker sequentially
	AlignAll(ctx context.Context) (*domain.SweepResult, error)
}
