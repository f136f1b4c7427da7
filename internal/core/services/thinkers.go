package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driving"
	"github.com/tech4humanity/t4h-core/internal/metrics"
	"github.com/tech4humanity/t4h-core/internal/relevance"
	"github.com/tech4humanity/t4h-core/internal/runtime"
)

// Ensure thinkerService implements ThinkerService
var _ driving.ThinkerService = (*thinkerService)(nil)

// alignmentShortlist is how many pre-scored families the generator chooses from
const alignmentShortlist = 3

const enrichmentSystemPrompt = `You write concise profiles of thinkers for a book about technology and humanity.
Respond with a single JSON object:
{"bio": string, "key_works": [string], "domains": [string]}
"bio" is required: three or four factual sentences.
"key_works" lists up to five major works by title.
"domains" lists up to six short lowercase topic tags such as "systems-thinking".
Respond with JSON only.`

const alignmentSystemPrompt = `You match thinkers to organizational work families.
You will receive a thinker profile and a shortlist of candidate families with deterministic pre-scores.
Choose exactly one family from the shortlist. Respond with a single JSON object:
{"family": string, "confidence": number, "rationale": string}
"family" is the family code from the shortlist, "confidence" is between 0 and 1,
"rationale" is one or two sentences. Respond with JSON only.`

type alignmentPayload struct {
	Family     string  `json:"family"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// ThinkerServiceConfig holds dependencies for the thinker service.
type ThinkerServiceConfig struct {
	ThinkerStore driven.ThinkerStore
	Services     *runtime.Services
	Analyzer     *relevance.Analyzer
	Lock         driven.DistributedLock
	Metrics      *metrics.Metrics
	SweepDelay   time.Duration
	Logger       *slog.Logger
}

type thinkerService struct {
	thinkers driven.ThinkerStore
	services *runtime.Services
	analyzer *relevance.Analyzer
	metrics  *metrics.Metrics
	sweeper  *sweepRunner
	logger   *slog.Logger
}

// NewThinkerService creates a new ThinkerService
func NewThinkerService(cfg ThinkerServiceConfig) driving.ThinkerService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = relevance.NewAnalyzer(relevance.DefaultVocabulary())
	}
	return &thinkerService{
		thinkers: cfg.ThinkerStore,
		services: cfg.Services,
		analyzer: analyzer,
		metrics:  cfg.Metrics,
		sweeper:  newSweepRunner(cfg.Lock, cfg.SweepDelay, cfg.Metrics, logger),
		logger:   logger,
	}
}

// EnrichThinker generates a profile and merges it into the thinker.
// The bio is replaced; key works and domains are unioned.
func (s *thinkerService) EnrichThinker(ctx context.Context, thinkerID string) (*domain.Thinker, error) {
	if thinkerID == "" {
		return nil, domain.ErrInvalidInput
	}

	thinker, err := s.thinkers.Get(ctx, thinkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thinker: %w", err)
	}

	var payload domain.ThinkerEnrichment
	req := domain.GenerationRequest{
		SystemPrompt: enrichmentSystemPrompt,
		UserPrompt:   thinkerPrompt(thinker),
		Temperature:  0.3,
	}
	if err := generateJSON(ctx, s.services, s.metrics, req, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Bio) == "" {
		return nil, fmt.Errorf("%w: bio is required", domain.ErrMalformedResponse)
	}

	domains := make([]string, 0, len(payload.Domains))
	for _, d := range payload.Domains {
		if n := relevance.NormalizeTag(d); n != "" {
			domains = append(domains, n)
		}
	}
	enrichment := domain.ThinkerEnrichment{
		Bio:      strings.TrimSpace(payload.Bio),
		KeyWorks: domain.UnionIDs(thinker.KeyWorks, trimAll(payload.KeyWorks)),
		Domains:  domain.UnionIDs(thinker.Domains, domains),
	}

	now := time.Now()
	if err := s.thinkers.SaveEnrichment(ctx, thinker.ID, enrichment, now); err != nil {
		return nil, fmt.Errorf("failed to save thinker: %w", err)
	}
	thinker.Bio = enrichment.Bio
	thinker.KeyWorks = enrichment.KeyWorks
	thinker.Domains = enrichment.Domains
	thinker.EnrichedAt = &now
	thinker.UpdatedAt = now

	s.logger.Info("thinker enriched", "thinker_id", thinker.ID, "domains", len(thinker.Domains))
	return thinker, nil
}

// AlignThinker runs the two-stage alignment:
//  1. Pre-score the thinker against every work family
//  2. Keep the top candidates with a positive score
//  3. Ask the generator to pick one of them
//  4. Save the chosen family, confidence and rationale
func (s *thinkerService) AlignThinker(ctx context.Context, thinkerID string) (*domain.Alignment, error) {
	if thinkerID == "" {
		return nil, domain.ErrInvalidInput
	}
	startTime := time.Now()
	defer s.metrics.ObservePipeline("align_thinker", startTime)

	thinker, err := s.thinkers.Get(ctx, thinkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thinker: %w", err)
	}

	candidates := s.preScore(thinker)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no work family matches thinker %s", domain.ErrInvalidInput, thinker.ID)
	}

	var payload alignmentPayload
	req := domain.GenerationRequest{
		SystemPrompt: alignmentSystemPrompt,
		UserPrompt:   alignmentPrompt(thinker, candidates),
		Temperature:  0.2,
	}
	if err := generateJSON(ctx, s.services, s.metrics, req, &payload); err != nil {
		return nil, err
	}

	family, ok := domain.WorkFamilyByCode(strings.ToUpper(strings.TrimSpace(payload.Family)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", domain.ErrMalformedResponse, payload.Family)
	}
	code := family.Code
	if !inShortlist(candidates, code) {
		return nil, fmt.Errorf("%w: family %q is not in the shortlist", domain.ErrMalformedResponse, payload.Family)
	}
	confidence := clampUnit(payload.Confidence)

	alignment := &domain.Alignment{
		ThinkerID:  thinker.ID,
		Family:     code,
		Confidence: confidence,
		Rationale:  strings.TrimSpace(payload.Rationale),
		Candidates: candidates,
	}
	if err := s.thinkers.SaveAlignment(ctx, alignment, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to save thinker: %w", err)
	}

	s.logger.Info("thinker aligned",
		"thinker_id", thinker.ID,
		"family", code,
		"confidence", confidence,
	)

	return alignment, nil
}

// preScore rates the thinker against each work family with the relevance
// scorer and returns up to alignmentShortlist families with a positive
// score, best first. Ties keep ring order.
func (s *thinkerService) preScore(thinker *domain.Thinker) []domain.FamilyCandidate {
	record := domain.FromThinker(thinker)

	var scored []domain.FamilyCandidate
	for _, family := range domain.WorkFamilies() {
		expanded := s.analyzer.ExpandTags(relevance.NewTagSet(family.Keywords...))
		score := s.analyzer.Score(expanded, record)
		if score > 0 {
			scored = append(scored, domain.FamilyCandidate{Family: family, PreScore: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PreScore > scored[j].PreScore
	})
	if len(scored) > alignmentShortlist {
		scored = scored[:alignmentShortlist]
	}
	return scored
}

// AlignAll aligns every thinker
func (s *thinkerService) AlignAll(ctx context.Context) (*domain.SweepResult, error) {
	if _, err := requireGenerator(s.services); err != nil {
		return nil, err
	}

	list := func(ctx context.Context) ([]string, error) {
		thinkers, err := s.thinkers.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list thinkers: %w", err)
		}
		ids := make([]string, 0, len(thinkers))
		for _, t := range thinkers {
			ids = append(ids, t.ID)
		}
		return ids, nil
	}

	return s.sweeper.run(ctx, SweepAlignment, list, func(ctx context.Context, id string) (int, error) {
		_, err := s.AlignThinker(ctx, id)
		return 0, err
	})
}

func thinkerPrompt(t *domain.Thinker) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", t.Name)
	if t.Bio != "" {
		fmt.Fprintf(&b, "Current bio: %s\n", t.Bio)
	}
	if len(t.KeyWorks) > 0 {
		fmt.Fprintf(&b, "Key works: %s\n", strings.Join(t.KeyWorks, "; "))
	}
	if len(t.Domains) > 0 {
		fmt.Fprintf(&b, "Domains: %s\n", strings.Join(t.Domains, ", "))
	}
	return b.String()
}

func alignmentPrompt(t *domain.Thinker, candidates []domain.FamilyCandidate) string {
	var b strings.Builder
	b.WriteString(thinkerPrompt(t))
	b.WriteString("\nShortlist:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s (%s): %s [pre-score %d]\n", c.Family.Code, c.Family.Name, c.Family.Description, c.PreScore)
	}
	return b.String()
}

func inShortlist(candidates []domain.FamilyCandidate, code string) bool {
	for _, c := range candidates {
		if c.Family.Code == code {
			return true
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
