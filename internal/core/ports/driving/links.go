package driving

import (
	"context"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// LinkService discovers and manages links between exemplars and research papers
type LinkService interface {
	// LinkExemplar scores every research paper against an exemplar and
	// persists a link for each candidate
	LinkExemplar(ctx context.Context, exemplarID string) (*domain.LinkResult, error)

	// LinkResearchPaper scores every exemplar against a research paper and
	// persists a link for each candidate
	LinkResearchPaper(ctx context.Context, paperID string) (*domain.LinkResult, error)

	// SweepResearchLinks runs LinkExemplar for each exemplar in category, one
	// at a time. An empty category sweeps all exemplars.
	SweepResearchLinks(ctx context.Context, category string) (*domain.SweepResult, error)

	// ListLinks returns links where the record is source or target
	ListLinks(ctx context.Context, recordID string) ([]*domain.Link, error)

	// DeleteLink removes a link. Back-reference arrays are not rewritten.
	DeleteLink(ctx context.Context, linkID string) error
}
