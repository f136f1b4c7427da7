package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven/mocks"
	"github.com/tech4humanity/t4h-core/internal/metrics"
	"github.com/tech4humanity/t4h-core/internal/relevance"
)

type linkFixture struct {
	exemplars *mocks.MockExemplarStore
	papers    *mocks.MockResearchPaperStore
	links     *mocks.MockLinkStore
	lock      *mocks.MockDistributedLock
	metrics   *metrics.Metrics
	svc       *linkService
}

func newTestLinkService(cfg LinkServiceConfig) *linkFixture {
	f := &linkFixture{
		exemplars: mocks.NewMockExemplarStore(),
		papers:    mocks.NewMockResearchPaperStore(),
		links:     mocks.NewMockLinkStore(),
		lock:      mocks.NewMockDistributedLock(),
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	if cfg.ExemplarStore == nil {
		cfg.ExemplarStore = f.exemplars
	}
	cfg.ResearchPaperStore = f.papers
	cfg.LinkStore = f.links
	cfg.Lock = f.lock
	cfg.Metrics = f.metrics
	cfg.Analyzer = relevance.NewAnalyzer(relevance.DefaultVocabulary())
	f.svc = NewLinkService(cfg).(*linkService)
	return f
}

func seedKahneman(t *testing.T, f *linkFixture) {
	t.Helper()
	ctx := context.Background()
	_ = f.exemplars.Save(ctx, &domain.Exemplar{
		ID:          "ex-kahneman",
		Title:       "Daniel Kahneman",
		Description: "Pioneer of prospect theory and the study of judgment.",
		Category:    "behavioral",
	})
	_ = f.papers.Save(ctx, &domain.ResearchPaper{
		ID:    "rp-prospect",
		Title: "Prospect Theory: An Analysis of Decision under Risk",
	})
	_ = f.papers.Save(ctx, &domain.ResearchPaper{
		ID:    "rp-biases",
		Title: "Judgment under Uncertainty",
		Tags:  []string{"cognitive-bias", "heuristics"},
	})
	_ = f.papers.Save(ctx, &domain.ResearchPaper{
		ID:       "rp-weather",
		Title:    "Rainfall patterns in coastal regions",
		Abstract: "Precipitation data over ten years.",
	})
}

func TestLinkService_LinkExemplar(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx := context.Background()

	result, err := f.svc.LinkExemplar(ctx, "ex-kahneman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.CountCreated != 2 {
		t.Errorf("expected 2 links created, got %d", result.CountCreated)
	}

	links := f.links.All()
	byTarget := make(map[string]*domain.Link)
	for _, l := range links {
		byTarget[l.TargetID] = l
	}

	prospect, ok := byTarget["rp-prospect"]
	if !ok {
		t.Fatal("expected link to prospect theory paper")
	}
	if prospect.RelevanceScore < 5 {
		t.Errorf("expected score >= 5, got %d", prospect.RelevanceScore)
	}
	if prospect.LinkType == domain.LinkTypeRelated {
		t.Errorf("expected reference or stronger, got %s", prospect.LinkType)
	}
	if prospect.SourceKind != domain.RecordKindExemplar || prospect.TargetKind != domain.RecordKindResearchPaper {
		t.Errorf("unexpected kinds %s -> %s", prospect.SourceKind, prospect.TargetKind)
	}
	if !strings.Contains(prospect.ContextNote, "kahneman") {
		t.Errorf("expected context note to cite seed tags, got %q", prospect.ContextNote)
	}
	if _, ok := byTarget["rp-weather"]; ok {
		t.Error("unrelated paper must not be linked")
	}

	// Back-references on both sides
	exemplar, _ := f.exemplars.Get(ctx, "ex-kahneman")
	if len(exemplar.ResearchPaperIDs) != 2 {
		t.Errorf("expected 2 research paper ids, got %v", exemplar.ResearchPaperIDs)
	}
	paper, _ := f.papers.Get(ctx, "rp-prospect")
	if len(paper.ExemplarIDs) != 1 || paper.ExemplarIDs[0] != "ex-kahneman" {
		t.Errorf("expected paper back-reference to exemplar, got %v", paper.ExemplarIDs)
	}

	if got := testutil.ToFloat64(f.metrics.LinksCreated.WithLabelValues(string(prospect.LinkType))); got < 1 {
		t.Errorf("expected links created metric, got %v", got)
	}
}

func TestLinkService_LinkExemplar_EmptySource(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx := context.Background()
	_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: "ex-empty"})

	result, err := f.svc.LinkExemplar(ctx, "ex-empty")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if result.CountCreated != 0 {
		t.Errorf("expected 0 links, got %d", result.CountCreated)
	}
	if n, _ := f.links.Count(ctx); n != 0 {
		t.Errorf("expected no persisted links, got %d", n)
	}
}

func TestLinkService_LinkExemplar_FetchFailure(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	f.papers.ListErr = domain.ErrStoreUnavailable

	result, err := f.svc.LinkExemplar(context.Background(), "ex-kahneman")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if result == nil || result.Success {
		t.Fatal("expected a failed result")
	}
	if result.CountCreated != 0 {
		t.Errorf("expected 0 links, got %d", result.CountCreated)
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
	if f.links.InsertCalls() != 0 {
		t.Errorf("persistence must not run, got %d inserts", f.links.InsertCalls())
	}
	exemplar, _ := f.exemplars.Get(context.Background(), "ex-kahneman")
	if len(exemplar.ResearchPaperIDs) != 0 {
		t.Errorf("back-references must not change, got %v", exemplar.ResearchPaperIDs)
	}
}

func TestLinkService_LinkExemplar_InsertSkipped(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	f.links.FailTargets["rp-biases"] = errors.New("constraint violation")
	ctx := context.Background()

	result, err := f.svc.LinkExemplar(ctx, "ex-kahneman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CountCreated != 1 {
		t.Errorf("expected 1 link created, got %d", result.CountCreated)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}

	exemplar, _ := f.exemplars.Get(ctx, "ex-kahneman")
	if len(exemplar.ResearchPaperIDs) != 1 || exemplar.ResearchPaperIDs[0] != "rp-prospect" {
		t.Errorf("skipped target must not be back-referenced, got %v", exemplar.ResearchPaperIDs)
	}
	paper, _ := f.papers.Get(ctx, "rp-biases")
	if len(paper.ExemplarIDs) != 0 {
		t.Errorf("skipped target must not reference source, got %v", paper.ExemplarIDs)
	}
}

func TestLinkService_LinkExemplar_BackReferenceFailureIsBestEffort(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	f.exemplars.BackRefErr = domain.ErrStoreUnavailable
	f.papers.BackRefErr = domain.ErrStoreUnavailable

	result, err := f.svc.LinkExemplar(context.Background(), "ex-kahneman")
	if err != nil {
		t.Fatalf("back-reference failures must not fail the run: %v", err)
	}
	if result.CountCreated != 2 {
		t.Errorf("expected 2 links created, got %d", result.CountCreated)
	}
}

func TestLinkService_LinkExemplar_RunsTwiceDuplicates(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx := context.Background()

	first, err := f.svc.LinkExemplar(ctx, "ex-kahneman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	afterFirst, _ := f.links.Count(ctx)

	second, err := f.svc.LinkExemplar(ctx, "ex-kahneman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	afterSecond, _ := f.links.Count(ctx)

	if first.CountCreated != second.CountCreated {
		t.Errorf("expected equal counts per run, got %d and %d", first.CountCreated, second.CountCreated)
	}
	if afterSecond != 2*afterFirst {
		t.Errorf("expected %d links after second run, got %d", 2*afterFirst, afterSecond)
	}

	// Back-references are a set union and do not grow
	exemplar, _ := f.exemplars.Get(ctx, "ex-kahneman")
	if len(exemplar.ResearchPaperIDs) != first.CountCreated {
		t.Errorf("expected %d back-references, got %d", first.CountCreated, len(exemplar.ResearchPaperIDs))
	}
}

func TestLinkService_LinkExemplar_FetchLimit(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{FetchLimit: 1})
	seedKahneman(t, f)

	result, err := f.svc.LinkExemplar(context.Background(), "ex-kahneman")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.papers.LastLimit() != 1 {
		t.Errorf("expected fetch limit 1, got %d", f.papers.LastLimit())
	}
	// Only the first paper is fetched, so the second match is missed
	if result.CountCreated != 1 {
		t.Errorf("expected 1 link with limit 1, got %d", result.CountCreated)
	}
}

func TestLinkService_LinkExemplar_Errors(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})

	_, err := f.svc.LinkExemplar(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	result, err := f.svc.LinkExemplar(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if result.Success {
		t.Error("expected failed result")
	}
}

func TestLinkService_LinkResearchPaper(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	ctx := context.Background()
	_ = f.papers.Save(ctx, &domain.ResearchPaper{
		ID:      "rp-nudge",
		Title:   "Nudge: Improving Decisions about Health, Wealth, and Happiness",
		Authors: []string{"Richard H. Thaler", "Cass R. Sunstein"},
		Tags:    []string{"behavioral-economics"},
	})
	_ = f.exemplars.Save(ctx, &domain.Exemplar{
		ID:          "ex-thaler",
		Title:       "Richard Thaler",
		Description: "Nudge theory and behavioral economics.",
	})
	_ = f.exemplars.Save(ctx, &domain.Exemplar{
		ID:          "ex-ostrom",
		Title:       "Elinor Ostrom",
		Description: "Governing the commons.",
	})

	result, err := f.svc.LinkResearchPaper(ctx, "rp-nudge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CountCreated != 1 {
		t.Fatalf("expected 1 link, got %d", result.CountCreated)
	}

	link := f.links.All()[0]
	if link.SourceID != "rp-nudge" || link.TargetID != "ex-thaler" {
		t.Errorf("unexpected link %s -> %s", link.SourceID, link.TargetID)
	}
	if link.SourceKind != domain.RecordKindResearchPaper {
		t.Errorf("expected research paper source, got %s", link.SourceKind)
	}

	paper, _ := f.papers.Get(ctx, "rp-nudge")
	if len(paper.ExemplarIDs) != 1 || paper.ExemplarIDs[0] != "ex-thaler" {
		t.Errorf("expected paper back-reference, got %v", paper.ExemplarIDs)
	}
	exemplar, _ := f.exemplars.Get(ctx, "ex-thaler")
	if len(exemplar.ResearchPaperIDs) != 1 || exemplar.ResearchPaperIDs[0] != "rp-nudge" {
		t.Errorf("expected exemplar back-reference, got %v", exemplar.ResearchPaperIDs)
	}
}

// flakyExemplarStore fails Get for selected IDs
type flakyExemplarStore struct {
	*mocks.MockExemplarStore
	failGet map[string]error
}

func (s *flakyExemplarStore) Get(ctx context.Context, id string) (*domain.Exemplar, error) {
	if err, ok := s.failGet[id]; ok {
		return nil, err
	}
	return s.MockExemplarStore.Get(ctx, id)
}

func TestLinkService_SweepResearchLinks(t *testing.T) {
	store := &flakyExemplarStore{
		MockExemplarStore: mocks.NewMockExemplarStore(),
		failGet:           map[string]error{"ex-broken": domain.ErrStoreUnavailable},
	}
	f := newTestLinkService(LinkServiceConfig{ExemplarStore: store})
	f.exemplars = store.MockExemplarStore
	seedKahneman(t, f)
	ctx := context.Background()
	_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: "ex-broken", Title: "Broken", Category: "behavioral"})
	_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: "ex-tversky", Title: "Amos Tversky", Category: "behavioral"})
	_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: "ex-ostrom", Title: "Elinor Ostrom", Category: "commons"})

	result, err := f.svc.SweepResearchLinks(ctx, "behavioral")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Name != SweepResearchLinks {
		t.Errorf("expected sweep name %s, got %s", SweepResearchLinks, result.Name)
	}
	if result.Processed != 3 {
		t.Errorf("expected 3 processed, got %d", result.Processed)
	}
	if result.Failed != 1 || result.Succeeded != 2 {
		t.Errorf("expected 2 succeeded and 1 failed, got %d and %d", result.Succeeded, result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0].RecordID != "ex-broken" {
		t.Errorf("expected failure for ex-broken, got %+v", result.Failures)
	}
	if result.CountCreated < 3 {
		t.Errorf("expected links from kahneman and tversky, got %d", result.CountCreated)
	}
	if f.lock.IsHeld(LockName(SweepResearchLinks)) {
		t.Error("expected lock to be released")
	}
	if got := testutil.ToFloat64(f.metrics.SweepRecords.WithLabelValues(SweepResearchLinks, "failure")); got != 1 {
		t.Errorf("expected 1 failed sweep record metric, got %v", got)
	}
}

func TestLinkService_SweepResearchLinks_ContinuesOnStoreOutage(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx := context.Background()
	_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: "ex-tversky", Title: "Amos Tversky", Category: "behavioral"})
	f.papers.ListErr = domain.ErrStoreUnavailable

	result, err := f.svc.SweepResearchLinks(ctx, "")
	if err != nil {
		t.Fatalf("per-record failures must not fail the sweep: %v", err)
	}
	if result.Processed != 2 || result.Failed != 2 {
		t.Errorf("expected 2 processed and 2 failed, got %d and %d", result.Processed, result.Failed)
	}
}

func TestLinkService_SweepResearchLinks_LockHeld(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	f.lock.SetLockHeld(LockName(SweepResearchLinks), time.Minute)

	_, err := f.svc.SweepResearchLinks(context.Background(), "")
	if !errors.Is(err, domain.ErrSweepInProgress) {
		t.Errorf("expected ErrSweepInProgress, got %v", err)
	}
	if f.links.InsertCalls() != 0 {
		t.Error("no links may be written while another sweep runs")
	}
}

func TestLinkService_SweepResearchLinks_ListFailure(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	f.exemplars.ListErr = domain.ErrStoreUnavailable

	_, err := f.svc.SweepResearchLinks(context.Background(), "")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if f.lock.IsHeld(LockName(SweepResearchLinks)) {
		t.Error("expected lock to be released after failure")
	}
}

func TestLinkService_SweepResearchLinks_Delay(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{SweepDelay: 20 * time.Millisecond})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_ = f.exemplars.Save(ctx, &domain.Exemplar{ID: id})
	}

	start := time.Now()
	result, err := f.svc.SweepResearchLinks(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 3 {
		t.Errorf("expected 3 processed, got %d", result.Processed)
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("expected at least two delays between records, took %v", elapsed)
	}
}

func TestLinkService_SweepResearchLinks_Cancelled(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.SweepResearchLinks(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLinkService_ListAndDeleteLinks(t *testing.T) {
	f := newTestLinkService(LinkServiceConfig{})
	seedKahneman(t, f)
	ctx := context.Background()

	if _, err := f.svc.LinkExemplar(ctx, "ex-kahneman"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	links, err := f.svc.ListLinks(ctx, "rp-prospect")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link for target, got %d", len(links))
	}

	if err := f.svc.DeleteLink(ctx, links[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	links, _ = f.svc.ListLinks(ctx, "rp-prospect")
	if len(links) != 0 {
		t.Errorf("expected link to be deleted, got %d", len(links))
	}

	if err := f.svc.DeleteLink(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.ListLinks(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := f.svc.DeleteLink(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestContextNote(t *testing.T) {
	seed := relevance.NewTagSet("b", "a", "c", "d", "e", "f", "g", "h", "i", "j")

	note := contextNote(seed, 7)

	if !strings.Contains(note, "7/10") {
		t.Errorf("expected score in note, got %q", note)
	}
	if !strings.Contains(note, "a, b, c") {
		t.Errorf("expected sorted tags, got %q", note)
	}
	if strings.Contains(note, ", i") {
		t.Errorf("expected at most %d tags, got %q", maxNoteTags, note)
	}
}
