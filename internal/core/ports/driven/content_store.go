package driven

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// ExemplarStore handles exemplar persistence (PostgreSQL)
type ExemplarStore interface {
	// Get retrieves an exemplar by ID
	Get(ctx context.Context, id string) (*domain.Exemplar, error)

	// List retrieves exemplars matching the filter, ordered by title
	List(ctx context.Context, filter domain.ExemplarFilter) ([]*domain.Exemplar, error)

	// Save creates or updates an exemplar. An update leaves
	// ResearchPaperIDs as stored.
	Save(ctx context.Context, exemplar *domain.Exemplar) error

	// AddResearchPaperIDs unions paperIDs into the exemplar's back-reference array.
	// This is a cache refresh; the link table stays authoritative.
	AddResearchPaperIDs(ctx context.Context, id string, paperIDs []string) error

	// Delete deletes an exemplar
	Delete(ctx context.Context, id string) error
}

// ResearchPaperStore handles research paper persistence (PostgreSQL)
type ResearchPaperStore interface {
	// Get retrieves a research paper by ID
	Get(ctx context.Context, id string) (*domain.ResearchPaper, error)

	// List retrieves research papers. limit <= 0 returns the whole collection.
	List(ctx context.Context, limit int) ([]*domain.ResearchPaper, error)

	// Save creates or updates a research paper. An update leaves
	// ExemplarIDs as stored.
	Save(ctx context.Context, paper *domain.ResearchPaper) error

	// AddExemplarIDs unions exemplarIDs into the paper's back-reference array
	AddExemplarIDs(ctx context.Context, id string, exemplarIDs []string) error

	// Delete deletes a research paper
	Delete(ctx context.Context, id string) error
}
