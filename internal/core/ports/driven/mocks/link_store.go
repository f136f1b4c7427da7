package mocks

import (
	"context"
	"sync"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

var _ driven.LinkStore = (*MockLinkStore)(nil)

// MockLinkStore is an append-only in-memory LinkStore
type MockLinkStore struct {
	mu    sync.RWMutex
	links []*domain.Link

	// FailTargets makes Insert fail for links pointing at these target IDs
	FailTargets map[string]error

	insertCalls int
}

// NewMockLinkStore creates a new MockLinkStore
func NewMockLinkStore() *MockLinkStore {
	return &MockLinkStore{
		FailTargets: make(map[string]error),
	}
}

func (m *MockLinkStore) Insert(ctx context.Context, link *domain.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if err, ok := m.FailTargets[link.TargetID]; ok {
		return err
	}
	cp := *link
	m.links = append(m.links, &cp)
	return nil
}

func (m *MockLinkStore) ListForRecord(ctx context.Context, recordID string) ([]*domain.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Link
	for i := len(m.links) - 1; i >= 0; i-- {
		l := m.links[i]
		if l.SourceID == recordID || l.TargetID == recordID {
			cp := *l
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockLinkStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.links {
		if l.ID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockLinkStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links), nil
}

// Helper methods for testing

// All returns every stored link in insertion order
func (m *MockLinkStore) All() []*domain.Link {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Link, len(m.links))
	copy(out, m.links)
	return out
}

// InsertCalls returns how many times Insert was called, including failures
func (m *MockLinkStore) InsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}
