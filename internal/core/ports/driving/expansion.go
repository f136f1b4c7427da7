package driving

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// ExpansionService fills in exemplar content with the text generator
type ExpansionService interface {
	// ExpandExemplar generates description, framework, notes and thinker
	// names for one exemplar and saves the merged result
	ExpandExemplar(ctx context.Context, exemplarID string) (*domain.Exemplar, error)

	// BulkExpand expands every exemplar in category sequentially
	BulkExpand(ctx context.Context, category string) (*domain.SweepResult, error)
}
