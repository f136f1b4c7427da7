package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driving"
)

// Ensure enneadService implements EnneadService
var _ driving.EnneadService = (*enneadService)(nil)

type enneadService struct {
	personas driven.PersonaStore
	thinkers driven.ThinkerStore
	logger   *slog.Logger
}

// NewEnneadService creates a new EnneadService
func NewEnneadService(personas driven.PersonaStore, thinkers driven.ThinkerStore, logger *slog.Logger) driving.EnneadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &enneadService{
		personas: personas,
		thinkers: thinkers,
		logger:   logger,
	}
}

// SeedPersonas upserts the full primary x secondary x tertiary product.
// Running it again updates rows in place.
func (s *enneadService) SeedPersonas(ctx context.Context) (*domain.SeedResult, error) {
	personas := GeneratePersonas()

	if err := s.personas.UpsertBatch(ctx, personas); err != nil {
		return nil, fmt.Errorf("failed to upsert personas: %w", err)
	}

	total, err := s.personas.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count personas: %w", err)
	}

	s.logger.Info("personas seeded", "generated", len(personas), "total", total)
	return &domain.SeedResult{Generated: len(personas), Total: total}, nil
}

// ListPersonas returns stored personas
func (s *enneadService) ListPersonas(ctx context.Context, limit int) ([]*domain.Persona, error) {
	return s.personas.List(ctx, limit)
}

// AssembleTeam picks, for each family in ring order, the aligned thinker
// with the highest alignment score. Ties go to the alphabetically first name.
func (s *enneadService) AssembleTeam(ctx context.Context) (*domain.Team, error) {
	thinkers, err := s.thinkers.ListAligned(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list aligned thinkers: %w", err)
	}

	best := make(map[string]*domain.Thinker, domain.EnneadSize)
	for _, t := range thinkers {
		if !t.IsAligned() {
			continue
		}
		current, ok := best[t.WorkFamily]
		if !ok || t.AlignmentScore > current.AlignmentScore ||
			(t.AlignmentScore == current.AlignmentScore && t.Name < current.Name) {
			best[t.WorkFamily] = t
		}
	}

	team := &domain.Team{}
	for _, family := range domain.WorkFamilies() {
		thinker, ok := best[family.Code]
		if !ok {
			team.Vacancies = append(team.Vacancies, family.Code)
			continue
		}
		prev, next, _ := domain.RingNeighbours(family.Code)
		team.Members = append(team.Members, domain.TeamMember{
			Family:      family,
			Thinker:     thinker,
			PersonaCode: domain.PersonaCode(family.Code, prev.Code, next.Code),
		})
	}

	return team, nil
}

// GeneratePersonas builds every persona of the ennead in deterministic order
func GeneratePersonas() []*domain.Persona {
	families := domain.WorkFamilies()
	personas := make([]*domain.Persona, 0, len(families)*len(families)*len(families))
	for _, primary := range families {
		for _, secondary := range families {
			for _, tertiary := range families {
				personas = append(personas, domain.NewPersona(primary, secondary, tertiary))
			}
		}
	}
	return personas
}
