package domain

import "time"

// Thinker is a domain expert profile that can be enriched and aligned
// to a work family
type Thinker struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Bio                string     `json:"bio"`
	KeyWorks           []string   `json:"key_works"`
	Domains            []string   `json:"domains"`
	WorkFamily         string     `json:"work_family,omitempty"` // WorkFamily.Code
	AlignmentScore     float64    `json:"alignment_score"`       // LLM confidence, 0..1
	AlignmentRationale string     `json:"alignment_rationale,omitempty"`
	EnrichedAt         *time.Time `json:"enriched_at,omitempty"`
	AlignedAt          *time.Time `json:"aligned_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsAligned reports whether the thinker has been assigned a work family
func (t *Thinker) IsAligned() bool {
	return t.WorkFamily != ""
}

// FromThinker adapts a thinker profile into the shared record shape.
// Domains act as curated tags.
func FromThinker(t *Thinker) *ContentRecord {
	body := nonEmpty(t.Bio)
	body = append(body, nonEmpty(t.KeyWorks...)...)
	return &ContentRecord{
		ID:         t.ID,
		Kind:       RecordKindThinker,
		Title:      t.Name,
		BodyFields: body,
		Tags:       t.Domains,
	}
}

// ThinkerEnrichment is the generated profile payload
type ThinkerEnrichment struct {
	Bio      string   `json:"bio"`
	KeyWorks []string `json:"key_works"`
	Domains  []string `json:"domains"`
}

// FamilyCandidate is a work family shortlisted by the deterministic pre-score
type FamilyCandidate struct {
	Family   *WorkFamily `json:"family"`
	PreScore int         `json:"pre_score"`
}

// Alignment is the outcome of aligning one thinker
type Alignment struct {
	ThinkerID  string            `json:"thinker_id"`
	Family     string            `json:"family"`
	Confidence float64           `json:"confidence"`
	Rationale  string            `json:"rationale"`
	Candidates []FamilyCandidate `json:"candidates"`
}
