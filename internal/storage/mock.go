package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/world"
)

// MockStorage is an in-memory Storage for testing
type MockStorage struct {
	mu     sync.Mutex
	states map[uuid.UUID]*world.GameState
	saves  map[string]*world.GameState

	// Optional error injection
	SaveErr error
	LoadErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		states: make(map[uuid.UUID]*world.GameState),
		saves:  make(map[string]*world.GameState),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }
func (m *MockStorage) Close() error                   { return nil }

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *world.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp, err := gs.DeepCopy()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = cp
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*world.GameState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	gs, ok := m.states[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return gs.DeepCopy()
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

func (m *MockStorage) ExportSave(ctx context.Context, name string, gs *world.GameState) error {
	cp, err := gs.DeepCopy()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[name] = cp
	return nil
}

func (m *MockStorage) ImportSave(ctx context.Context, name string) (*world.GameState, error) {
	m.mu.Lock()
	gs, ok := m.saves[name]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("save not found: %s", name)
	}
	return gs.DeepCopy()
}

func (m *MockStorage) ListSaves(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.saves))
	for name := range m.saves {
		names = append(names, name)
	}
	return names, nil
}
