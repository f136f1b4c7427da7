package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

var (
	_ driven.ThinkerStore = (*MockThinkerStore)(nil)
	_ driven.PersonaStore = (*MockPersonaStore)(nil)
)

// MockThinkerStore is a mock implementation of ThinkerStore for testing
type MockThinkerStore struct {
	mu       sync.RWMutex
	thinkers map[string]*domain.Thinker

	ListErr error
}

// NewMockThinkerStore creates a new MockThinkerStore
func NewMockThinkerStore() *MockThinkerStore {
	return &MockThinkerStore{
		thinkers: make(map[string]*domain.Thinker),
	}
}

func (m *MockThinkerStore) Get(ctx context.Context, id string) (*domain.Thinker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.thinkers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockThinkerStore) List(ctx context.Context) ([]*domain.Thinker, error) {
	return m.list(false)
}

func (m *MockThinkerStore) ListAligned(ctx context.Context) ([]*domain.Thinker, error) {
	return m.list(true)
}

func (m *MockThinkerStore) list(alignedOnly bool) ([]*domain.Thinker, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Thinker
	for _, t := range m.thinkers {
		if alignedOnly && !t.IsAligned() {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockThinkerStore) Save(ctx context.Context, thinker *domain.Thinker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *thinker
	m.thinkers[thinker.ID] = &cp
	return nil
}

func (m *MockThinkerStore) SaveEnrichment(ctx context.Context, id string, enrichment domain.ThinkerEnrichment, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.thinkers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Bio = enrichment.Bio
	t.KeyWorks = enrichment.KeyWorks
	t.Domains = enrichment.Domains
	t.EnrichedAt = &at
	t.UpdatedAt = at
	return nil
}

func (m *MockThinkerStore) SaveAlignment(ctx context.Context, alignment *domain.Alignment, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.thinkers[alignment.ThinkerID]
	if !ok {
		return domain.ErrNotFound
	}
	t.WorkFamily = alignment.Family
	t.AlignmentScore = alignment.Confidence
	t.AlignmentRationale = alignment.Rationale
	t.AlignedAt = &at
	t.UpdatedAt = at
	return nil
}

func (m *MockThinkerStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.thinkers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.thinkers, id)
	return nil
}

// MockPersonaStore is a mock implementation of PersonaStore keyed on persona code
type MockPersonaStore struct {
	mu       sync.RWMutex
	personas map[string]*domain.Persona

	UpsertErr error
	batches   int
}

// NewMockPersonaStore creates a new MockPersonaStore
func NewMockPersonaStore() *MockPersonaStore {
	return &MockPersonaStore{
		personas: make(map[string]*domain.Persona),
	}
}

func (m *MockPersonaStore) UpsertBatch(ctx context.Context, personas []*domain.Persona) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	for _, p := range personas {
		cp := *p
		if existing, ok := m.personas[p.Code]; ok {
			cp.ID = existing.ID
			cp.CreatedAt = existing.CreatedAt
		}
		m.personas[p.Code] = &cp
	}
	return nil
}

func (m *MockPersonaStore) GetByCode(ctx context.Context, code string) (*domain.Persona, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.personas[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPersonaStore) List(ctx context.Context, limit int) ([]*domain.Persona, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Persona, 0, len(m.personas))
	for _, p := range m.personas {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockPersonaStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.personas), nil
}

// Batches returns how many UpsertBatch calls succeeded
func (m *MockPersonaStore) Batches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.batches
}
