package domain

import "time"

// LinkType classifies the strength of an automatically discovered association
type LinkType string

const (
	LinkTypeDeepDive  LinkType = "deep_dive"
	LinkTypeCitation  LinkType = "citation"
	LinkTypeReference LinkType = "reference"
	LinkTypeRelated   LinkType = "related"
)

// Relevance score bounds and thresholds
const (
	MaxRelevanceScore = 10
	// LinkThreshold is the minimum score persisted as a link
	LinkThreshold = 3
)

// LinkTypeForScore derives the classification from a clamped score.
// The ranges [0,4), [4,6), [6,8) and [8,10] are contiguous and disjoint.
func LinkTypeForScore(score int) LinkType {
	switch {
	case score >= 8:
		return LinkTypeDeepDive
	case score >= 6:
		return LinkTypeCitation
	case score >= 4:
		return LinkTypeReference
	default:
		return LinkTypeRelated
	}
}

// ClampScore bounds a raw score to [0, MaxRelevanceScore]
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxRelevanceScore {
		return MaxRelevanceScore
	}
	return score
}

// Link is one persisted association between a source and a target record.
// Links are never mutated after creation.
type Link struct {
	ID             string     `json:"id"`
	SourceID       string     `json:"source_id"`
	SourceKind     RecordKind `json:"source_kind"`
	TargetID       string     `json:"target_id"`
	TargetKind     RecordKind `json:"target_kind"`
	RelevanceScore int        `json:"relevance_score"`
	LinkType       LinkType   `json:"link_type"`
	ContextNote    string     `json:"context_note"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Candidate is a target record that scored at or above LinkThreshold
type Candidate struct {
	Record *ContentRecord `json:"record"`
	Score  int            `json:"score"`
}

// LinkResult is the caller-facing summary of one pipeline run.
// Skipped inserts are counted but not itemized.
type LinkResult struct {
	SourceID     string `json:"source_id"`
	Success      bool   `json:"success"`
	CountCreated int    `json:"count_created"`
	Skipped      int    `json:"skipped,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SweepFailure records one entity that failed during a bulk sweep
type SweepFailure struct {
	RecordID string `json:"record_id"`
	Error    string `json:"error"`
}

// SweepResult summarizes a sequential bulk sweep
type SweepResult struct {
	Name         string         `json:"name"`
	Processed    int            `json:"processed"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	CountCreated int            `json:"count_created,omitempty"`
	Failures     []SweepFailure `json:"failures,omitempty"`
	Duration     float64        `json:"duration_seconds"`
}

// RecordFailure appends a failure and bumps the counters
func (r *SweepResult) RecordFailure(recordID string, err error) {
	r.Processed++
	r.Failed++
	r.Failures = append(r.Failures, SweepFailure{RecordID: recordID, Error: err.Error()})
}

// RecordSuccess bumps the success counters
func (r *SweepResult) RecordSuccess(created int) {
	r.Processed++
	r.Succeeded++
	r.CountCreated += created
}
