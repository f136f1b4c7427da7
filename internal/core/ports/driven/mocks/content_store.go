package mocks

import (
	"context"
	"sync"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

var (
	_ driven.ExemplarStore      = (*MockExemplarStore)(nil)
	_ driven.ResearchPaperStore = (*MockResearchPaperStore)(nil)
)

// MockExemplarStore is an in-memory ExemplarStore that keeps insertion order
type MockExemplarStore struct {
	mu        sync.RWMutex
	exemplars map[string]*domain.Exemplar
	order     []string

	// Failure injection
	ListErr    error
	BackRefErr error
	SaveErr    error
}

// NewMockExemplarStore creates a new MockExemplarStore
func NewMockExemplarStore() *MockExemplarStore {
	return &MockExemplarStore{
		exemplars: make(map[string]*domain.Exemplar),
	}
}

func (m *MockExemplarStore) Get(ctx context.Context, id string) (*domain.Exemplar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exemplars[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockExemplarStore) List(ctx context.Context, filter domain.ExemplarFilter) ([]*domain.Exemplar, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Exemplar
	for _, id := range m.order {
		e := m.exemplars[id]
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		cp := *e
		result = append(result, &cp)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (m *MockExemplarStore) Save(ctx context.Context, exemplar *domain.Exemplar) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *exemplar
	if existing, exists := m.exemplars[exemplar.ID]; exists {
		cp.ResearchPaperIDs = existing.ResearchPaperIDs
	} else {
		m.order = append(m.order, exemplar.ID)
	}
	m.exemplars[exemplar.ID] = &cp
	return nil
}

func (m *MockExemplarStore) AddResearchPaperIDs(ctx context.Context, id string, paperIDs []string) error {
	if m.BackRefErr != nil {
		return m.BackRefErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exemplars[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.ResearchPaperIDs = domain.UnionIDs(e.ResearchPaperIDs, paperIDs)
	return nil
}

func (m *MockExemplarStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exemplars[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.exemplars, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MockResearchPaperStore is an in-memory ResearchPaperStore that keeps insertion order
type MockResearchPaperStore struct {
	mu     sync.RWMutex
	papers map[string]*domain.ResearchPaper
	order  []string

	// Failure injection
	ListErr    error
	BackRefErr error

	listCalls int
	lastLimit int
}

// NewMockResearchPaperStore creates a new MockResearchPaperStore
func NewMockResearchPaperStore() *MockResearchPaperStore {
	return &MockResearchPaperStore{
		papers: make(map[string]*domain.ResearchPaper),
	}
}

func (m *MockResearchPaperStore) Get(ctx context.Context, id string) (*domain.ResearchPaper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.papers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockResearchPaperStore) List(ctx context.Context, limit int) ([]*domain.ResearchPaper, error) {
	m.mu.Lock()
	m.listCalls++
	m.lastLimit = limit
	m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ResearchPaper
	for _, id := range m.order {
		cp := *m.papers[id]
		result = append(result, &cp)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockResearchPaperStore) Save(ctx context.Context, paper *domain.ResearchPaper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *paper
	if existing, exists := m.papers[paper.ID]; exists {
		cp.ExemplarIDs = existing.ExemplarIDs
	} else {
		m.order = append(m.order, paper.ID)
	}
	m.papers[paper.ID] = &cp
	return nil
}

func (m *MockResearchPaperStore) AddExemplarIDs(ctx context.Context, id string, exemplarIDs []string) error {
	if m.BackRefErr != nil {
		return m.BackRefErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.papers[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ExemplarIDs = domain.UnionIDs(p.ExemplarIDs, exemplarIDs)
	return nil
}

func (m *MockResearchPaperStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.papers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.papers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Helper methods for testing

// ListCalls returns how many times List was called
func (m *MockResearchPaperStore) ListCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listCalls
}

// LastLimit returns the limit passed to the most recent List call
func (m *MockResearchPaperStore) LastLimit() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastLimit
}
