package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	return uuid.NewString()
}

// RecordKind identifies which collection a record belongs to
type RecordKind string

const (
	// RecordKindExemplar is a content exemplar (framework, thinker, concept)
	RecordKindExemplar RecordKind = "exemplar"
	// RecordKindResearchPaper is a reference document with curated tags
	RecordKindResearchPaper RecordKind = "research_paper"
	// RecordKindThinker is a thinker profile, scored against work families
	RecordKindThinker RecordKind = "thinker"
)

// Exemplar represents one conceptual unit of the book's subject-matter taxonomy
type Exemplar struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Framework        string    `json:"framework"`
	Notes            string    `json:"notes"`
	Category         string    `json:"category"`
	ThinkerNames     []string  `json:"thinker_names"`
	ResearchPaperIDs []string  `json:"research_paper_ids"` // Denormalized from links
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ResearchPaper represents a reference document that exemplars can cite
type ResearchPaper struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	Authors     []string  `json:"authors"`
	Tags        []string  `json:"tags"`
	Year        int       `json:"year,omitempty"`
	URL         string    `json:"url,omitempty"`
	ExemplarIDs []string  `json:"exemplar_ids"` // Denormalized from links
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContentRecord is the shape shared by every record that enters the
// relevance pipeline. Concrete records are converted with the
// FromExemplar/FromResearchPaper adapters.
type ContentRecord struct {
	ID                 string     `json:"id"`
	Kind               RecordKind `json:"kind"`
	Title              string     `json:"title"`
	BodyFields         []string   `json:"body_fields"`
	RelatedEntityNames []string   `json:"related_entity_names"`
	Tags               []string   `json:"tags"`
	LinkedIDs          []string   `json:"linked_ids"`
}

// HasCuratedTags reports whether the record carries hand-curated tags
func (r *ContentRecord) HasCuratedTags() bool {
	for _, t := range r.Tags {
		if t != "" {
			return true
		}
	}
	return false
}

// FromExemplar adapts an exemplar into the shared record shape.
// Exemplars carry no curated tags; their tags are derived at extraction time.
func FromExemplar(e *Exemplar) *ContentRecord {
	return &ContentRecord{
		ID:                 e.ID,
		Kind:               RecordKindExemplar,
		Title:              e.Title,
		BodyFields:         nonEmpty(e.Description, e.Framework, e.Notes),
		RelatedEntityNames: e.ThinkerNames,
		LinkedIDs:          e.ResearchPaperIDs,
	}
}

// FromResearchPaper adapts a research paper into the shared record shape.
func FromResearchPaper(p *ResearchPaper) *ContentRecord {
	return &ContentRecord{
		ID:                 p.ID,
		Kind:               RecordKindResearchPaper,
		Title:              p.Title,
		BodyFields:         nonEmpty(p.Abstract),
		RelatedEntityNames: p.Authors,
		Tags:               p.Tags,
		LinkedIDs:          p.ExemplarIDs,
	}
}

func nonEmpty(fields ...string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ExemplarFilter narrows exemplar listings
type ExemplarFilter struct {
	Category string // Empty means all categories
	Limit    int    // <= 0 means no limit
}

// UnionIDs returns existing with every id from add appended once, preserving order.
func UnionIDs(existing, add []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, list := range [][]string{existing, add} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
