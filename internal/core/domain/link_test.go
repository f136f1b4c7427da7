package domain

import (
	"errors"
	"testing"
)

func TestLinkTypeForScore(t *testing.T) {
	tests := []struct {
		score int
		want  LinkType
	}{
		{0, LinkTypeRelated},
		{1, LinkTypeRelated},
		{3, LinkTypeRelated},
		{4, LinkTypeReference},
		{5, LinkTypeReference},
		{6, LinkTypeCitation},
		{7, LinkTypeCitation},
		{8, LinkTypeDeepDive},
		{9, LinkTypeDeepDive},
		{10, LinkTypeDeepDive},
	}

	for _, tt := range tests {
		if got := LinkTypeForScore(tt.score); got != tt.want {
			t.Errorf("LinkTypeForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestLinkTypeForScore_Partition(t *testing.T) {
	counts := map[LinkType]int{}
	prev := LinkTypeForScore(0)
	transitions := 0
	for s := 0; s <= MaxRelevanceScore; s++ {
		lt := LinkTypeForScore(s)
		counts[lt]++
		if lt != prev {
			transitions++
			prev = lt
		}
	}

	if len(counts) != 4 {
		t.Fatalf("expected all four classifications, got %v", counts)
	}
	// Contiguous ranges change classification exactly three times
	if transitions != 3 {
		t.Errorf("expected 3 transitions, got %d", transitions)
	}
	if counts[LinkTypeRelated] != 4 || counts[LinkTypeReference] != 2 ||
		counts[LinkTypeCitation] != 2 || counts[LinkTypeDeepDive] != 3 {
		t.Errorf("unexpected range sizes: %v", counts)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 0},
		{0, 0},
		{7, 7},
		{10, 10},
		{23, 10},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSweepResult_Counters(t *testing.T) {
	r := &SweepResult{Name: "research-links"}
	r.RecordSuccess(3)
	r.RecordSuccess(0)
	r.RecordFailure("ex-9", errors.New("boom"))

	if r.Processed != 3 {
		t.Errorf("expected 3 processed, got %d", r.Processed)
	}
	if r.Succeeded != 2 || r.Failed != 1 {
		t.Errorf("expected 2/1, got %d/%d", r.Succeeded, r.Failed)
	}
	if r.CountCreated != 3 {
		t.Errorf("expected 3 created, got %d", r.CountCreated)
	}
	if len(r.Failures) != 1 || r.Failures[0].RecordID != "ex-9" || r.Failures[0].Error != "boom" {
		t.Errorf("unexpected failures: %+v", r.Failures)
	}
}
