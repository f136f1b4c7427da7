package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driving"
	"github.com/tech4humanity/t4h-core/internal/metrics"
	"github.com/tech4humanity/t4h-core/internal/relevance"
)

// Ensure linkService implements LinkService
var _ driving.LinkService = (*linkService)(nil)

const (
	// fetchTimeout caps the target collection fetch
	fetchTimeout = 10 * time.Second

	// DefaultFetchLimit bounds the target collection fetch
	DefaultFetchLimit = 20

	// maxNoteTags caps how many seed tags a context note cites
	maxNoteTags = 8
)

// LinkServiceConfig holds dependencies for the link service.
type LinkServiceConfig struct {
	ExemplarStore      driven.ExemplarStore
	ResearchPaperStore driven.ResearchPaperStore
	LinkStore          driven.LinkStore
	Analyzer           *relevance.Analyzer
	Lock               driven.DistributedLock
	Metrics            *metrics.Metrics

	// FetchLimit caps the target fetch. It applies before scoring, so a
	// large unordered collection can under-count matches. <= 0 fetches all.
	FetchLimit int

	// SweepDelay is the pause between records in SweepResearchLinks
	SweepDelay time.Duration

	Logger *slog.Logger
}

// linkService runs the link discovery pipeline:
//  1. Load the source and adapt it to a ContentRecord
//  2. Extract and expand seed tags
//  3. Fetch the target collection
//  4. Score targets and keep candidates
//  5. Insert one link per candidate
//  6. Refresh back-references on both sides
type linkService struct {
	exemplars  driven.ExemplarStore
	papers     driven.ResearchPaperStore
	links      driven.LinkStore
	analyzer   *relevance.Analyzer
	metrics    *metrics.Metrics
	fetchLimit int
	sweeper    *sweepRunner
	logger     *slog.Logger
}

// NewLinkService creates a new LinkService
func NewLinkService(cfg LinkServiceConfig) driving.LinkService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = relevance.NewAnalyzer(relevance.DefaultVocabulary())
	}

	return &linkService{
		exemplars:  cfg.ExemplarStore,
		papers:     cfg.ResearchPaperStore,
		links:      cfg.LinkStore,
		analyzer:   analyzer,
		metrics:    cfg.Metrics,
		fetchLimit: cfg.FetchLimit,
		sweeper:    newSweepRunner(cfg.Lock, cfg.SweepDelay, cfg.Metrics, logger),
		logger:     logger,
	}
}

// linkPlan describes one direction of the pipeline
type linkPlan struct {
	name         string
	source       *domain.ContentRecord
	fetchTargets func(ctx context.Context) ([]*domain.ContentRecord, error)
	updateSource func(ctx context.Context, id string, ids []string) error
	updateTarget func(ctx context.Context, id string, ids []string) error
}

// LinkExemplar links an exemplar to research papers
func (s *linkService) LinkExemplar(ctx context.Context, exemplarID string) (*domain.LinkResult, error) {
	if exemplarID == "" {
		return failedLink(exemplarID, domain.ErrInvalidInput)
	}

	exemplar, err := s.exemplars.Get(ctx, exemplarID)
	if err != nil {
		return failedLink(exemplarID, fmt.Errorf("failed to get exemplar: %w", err))
	}

	return s.run(ctx, linkPlan{
		name:         "link_exemplar",
		source:       domain.FromExemplar(exemplar),
		fetchTargets: s.fetchResearchPapers,
		updateSource: s.exemplars.AddResearchPaperIDs,
		updateTarget: s.papers.AddExemplarIDs,
	})
}

// LinkResearchPaper links a research paper to exemplars
func (s *linkService) LinkResearchPaper(ctx context.Context, paperID string) (*domain.LinkResult, error) {
	if paperID == "" {
		return failedLink(paperID, domain.ErrInvalidInput)
	}

	paper, err := s.papers.Get(ctx, paperID)
	if err != nil {
		return failedLink(paperID, fmt.Errorf("failed to get research paper: %w", err))
	}

	return s.run(ctx, linkPlan{
		name:         "link_research_paper",
		source:       domain.FromResearchPaper(paper),
		fetchTargets: s.fetchExemplars,
		updateSource: s.papers.AddExemplarIDs,
		updateTarget: s.exemplars.AddResearchPaperIDs,
	})
}

func (s *linkService) run(ctx context.Context, plan linkPlan) (*domain.LinkResult, error) {
	startTime := time.Now()
	defer s.metrics.ObservePipeline(plan.name, startTime)

	source := plan.source
	seed := s.analyzer.ExtractTags(source)
	if seed.Len() == 0 {
		s.logger.Debug("no seed tags, nothing to link", "source_id", source.ID)
		return &domain.LinkResult{SourceID: source.ID, Success: true}, nil
	}
	expanded := s.analyzer.ExpandTags(seed)

	targets, err := plan.fetchTargets(ctx)
	if err != nil {
		s.logger.Error("target fetch failed", "source_id", source.ID, "error", err)
		return failedLink(source.ID, err)
	}

	candidates := s.analyzer.Rank(source, expanded, targets)
	created, skipped := s.persist(ctx, plan, seed, candidates)

	s.logger.Info("link pipeline completed",
		"source_id", source.ID,
		"source_kind", source.Kind,
		"seed_tags", seed.Len(),
		"targets", len(targets),
		"candidates", len(candidates),
		"count_created", created,
		"skipped", skipped,
	)

	return &domain.LinkResult{
		SourceID:     source.ID,
		Success:      true,
		CountCreated: created,
		Skipped:      skipped,
	}, nil
}

// persist inserts links, then refreshes back-references. The inserts are
// authoritative; back-reference failures are only logged.
func (s *linkService) persist(ctx context.Context, plan linkPlan, seed relevance.TagSet, candidates []domain.Candidate) (created, skipped int) {
	source := plan.source
	var linked []string

	for _, c := range candidates {
		linkType := domain.LinkTypeForScore(c.Score)
		link := &domain.Link{
			ID:             domain.GenerateID(),
			SourceID:       source.ID,
			SourceKind:     source.Kind,
			TargetID:       c.Record.ID,
			TargetKind:     c.Record.Kind,
			RelevanceScore: c.Score,
			LinkType:       linkType,
			ContextNote:    contextNote(seed, c.Score),
			CreatedAt:      time.Now(),
		}

		if err := s.links.Insert(ctx, link); err != nil {
			s.logger.Warn("failed to insert link",
				"source_id", source.ID,
				"target_id", c.Record.ID,
				"error", err,
			)
			s.metrics.RecordLinkSkipped(string(source.Kind))
			skipped++
			continue
		}

		s.metrics.RecordLinkCreated(string(linkType))
		linked = append(linked, c.Record.ID)
		created++
	}

	if len(linked) == 0 {
		return created, skipped
	}

	if err := plan.updateSource(ctx, source.ID, linked); err != nil {
		s.logger.Warn("failed to refresh source back-references", "source_id", source.ID, "error", err)
	}
	for _, targetID := range linked {
		if err := plan.updateTarget(ctx, targetID, []string{source.ID}); err != nil {
			s.logger.Warn("failed to refresh target back-references", "target_id", targetID, "error", err)
		}
	}

	return created, skipped
}

func (s *linkService) fetchResearchPapers(ctx context.Context) ([]*domain.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	papers, err := s.papers.List(ctx, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch research papers: %w", err)
	}

	records := make([]*domain.ContentRecord, 0, len(papers))
	for _, p := range papers {
		records = append(records, domain.FromResearchPaper(p))
	}
	return records, nil
}

func (s *linkService) fetchExemplars(ctx context.Context) ([]*domain.ContentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	exemplars, err := s.exemplars.List(ctx, domain.ExemplarFilter{Limit: s.fetchLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exemplars: %w", err)
	}

	records := make([]*domain.ContentRecord, 0, len(exemplars))
	for _, e := range exemplars {
		records = append(records, domain.FromExemplar(e))
	}
	return records, nil
}

// SweepResearchLinks links every exemplar in category to research papers
func (s *linkService) SweepResearchLinks(ctx context.Context, category string) (*domain.SweepResult, error) {
	list := func(ctx context.Context) ([]string, error) {
		exemplars, err := s.exemplars.List(ctx, domain.ExemplarFilter{Category: category})
		if err != nil {
			return nil, fmt.Errorf("failed to list exemplars: %w", err)
		}
		ids := make([]string, 0, len(exemplars))
		for _, e := range exemplars {
			ids = append(ids, e.ID)
		}
		return ids, nil
	}

	return s.sweeper.run(ctx, SweepResearchLinks, list, func(ctx context.Context, id string) (int, error) {
		result, err := s.LinkExemplar(ctx, id)
		if err != nil {
			return 0, err
		}
		return result.CountCreated, nil
	})
}

// ListLinks returns links touching a record
func (s *linkService) ListLinks(ctx context.Context, recordID string) ([]*domain.Link, error) {
	if recordID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.links.ListForRecord(ctx, recordID)
}

// DeleteLink removes a link
func (s *linkService) DeleteLink(ctx context.Context, linkID string) error {
	if linkID == "" {
		return domain.ErrInvalidInput
	}
	return s.links.Delete(ctx, linkID)
}

// contextNote cites the seed tags that produced a link
func contextNote(seed relevance.TagSet, score int) string {
	tags := seed.Sorted()
	if len(tags) > maxNoteTags {
		tags = tags[:maxNoteTags]
	}
	return fmt.Sprintf("Auto-linked with relevance %d/%d via tags: %s",
		score, domain.MaxRelevanceScore, strings.Join(tags, ", "))
}

func failedLink(sourceID string, err error) (*domain.LinkResult, error) {
	return &domain.LinkResult{
		SourceID: sourceID,
		Success:  false,
		Error:    err.Error(),
	}, err
}
