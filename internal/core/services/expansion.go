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
	"github.com/tech4humanity/t4h-core/internal/runtime"
)

// Ensure expansionService implements ExpansionService
var _ driving.ExpansionService = (*expansionService)(nil)

const expansionSystemPrompt = `You write reference content for a book about technology and humanity.
Given an exemplar (a framework, thinker or concept), respond with a single JSON object:
{"description": string, "framework": string, "notes": string, "thinker_names": [string]}
"description" is required: two or three plain sentences.
"framework" names the conceptual framework the exemplar belongs to.
"notes" holds practical applications or caveats.
"thinker_names" lists people most associated with the exemplar.
Respond with JSON only.`

// expansionPayload is the generated exemplar content
type expansionPayload struct {
	Description  string   `json:"description"`
	Framework    string   `json:"framework"`
	Notes        string   `json:"notes"`
	ThinkerNames []string `json:"thinker_names"`
}

// ExpansionServiceConfig holds dependencies for the expansion service.
type ExpansionServiceConfig struct {
	ExemplarStore driven.ExemplarStore
	Services      *runtime.Services
	Lock          driven.DistributedLock
	Metrics       *metrics.Metrics
	SweepDelay    time.Duration
	Logger        *slog.Logger
}

type expansionService struct {
	exemplars driven.ExemplarStore
	services  *runtime.Services
	metrics   *metrics.Metrics
	sweeper   *sweepRunner
	logger    *slog.Logger
}

// NewExpansionService creates a new ExpansionService
func NewExpansionService(cfg ExpansionServiceConfig) driving.ExpansionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &expansionService{
		exemplars: cfg.ExemplarStore,
		services:  cfg.Services,
		metrics:   cfg.Metrics,
		sweeper:   newSweepRunner(cfg.Lock, cfg.SweepDelay, cfg.Metrics, logger),
		logger:    logger,
	}
}

// ExpandExemplar generates content for one exemplar and merges it in.
// Non-empty generated fields replace stored ones; thinker names are unioned.
func (s *expansionService) ExpandExemplar(ctx context.Context, exemplarID string) (*domain.Exemplar, error) {
	if exemplarID == "" {
		return nil, domain.ErrInvalidInput
	}
	startTime := time.Now()
	defer s.metrics.ObservePipeline("expand_exemplar", startTime)

	exemplar, err := s.exemplars.Get(ctx, exemplarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exemplar: %w", err)
	}

	var payload expansionPayload
	req := domain.GenerationRequest{
		SystemPrompt: expansionSystemPrompt,
		UserPrompt:   expansionPrompt(exemplar),
		Temperature:  0.4,
	}
	if err := generateJSON(ctx, s.services, s.metrics, req, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrMalformedResponse)
	}

	exemplar.Description = strings.TrimSpace(payload.Description)
	if v := strings.TrimSpace(payload.Framework); v != "" {
		exemplar.Framework = v
	}
	if v := strings.TrimSpace(payload.Notes); v != "" {
		exemplar.Notes = v
	}
	exemplar.ThinkerNames = domain.UnionIDs(exemplar.ThinkerNames, trimAll(payload.ThinkerNames))
	exemplar.UpdatedAt = time.Now()

	if err := s.exemplars.Save(ctx, exemplar); err != nil {
		return nil, fmt.Errorf("failed to save exemplar: %w", err)
	}
	// Back-references may have moved on while the generator ran
	if stored, err := s.exemplars.Get(ctx, exemplar.ID); err == nil {
		exemplar = stored
	}

	s.logger.Info("exemplar expanded", "exemplar_id", exemplar.ID, "thinkers", len(exemplar.ThinkerNames))
	return exemplar, nil
}

// BulkExpand expands every exemplar in category
func (s *expansionService) BulkExpand(ctx context.Context, category string) (*domain.SweepResult, error) {
	if _, err := requireGenerator(s.services); err != nil {
		return nil, err
	}

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

	return s.sweeper.run(ctx, SweepExpansion, list, func(ctx context.Context, id string) (int, error) {
		_, err := s.ExpandExemplar(ctx, id)
		return 0, err
	})
}

func expansionPrompt(e *domain.Exemplar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	if e.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", e.Category)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "Current description: %s\n", e.Description)
	}
	if e.Framework != "" {
		fmt.Fprintf(&b, "Current framework: %s\n", e.Framework)
	}
	if len(e.ThinkerNames) > 0 {
		fmt.Fprintf(&b, "Known thinkers: %s\n", strings.Join(e.ThinkerNames, ", "))
	}
	return b.String()
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
