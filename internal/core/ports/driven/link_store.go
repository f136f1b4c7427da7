package driven

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// LinkStore handles link persistence (PostgreSQL).
// Links are append-only; the same pair may be stored more than once.
type LinkStore interface {
	// Insert stores a new link
	Insert(ctx context.Context, link *domain.Link) error

	// ListForRecord returns links where the record is source or target, newest first
	ListForRecord(ctx context.Context, recordID string) ([]*domain.Link, error)

	// Delete removes a link
	Delete(ctx context.Context, id string) error

	// Count returns the total number of links
	Count(ctx context.Context) (int, error)
}
