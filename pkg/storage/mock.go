package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/roster"
)

// MockStorage is an in-memory Storage for tests. Records and rosters are
// stored as JSON so callers never share memory with what was saved.
type MockStorage struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID][]byte
	rosters   map[string][]byte
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		projects: make(map[uuid.UUID][]byte),
		rosters:  make(map[string][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every SaveProject call fail with err
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveProject(ctx context.Context, rec *project.Record) error {
	if rec == nil {
		return errors.New("project record cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	rec.UpdatedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.projects[rec.ID] = data
	return nil
}

func (m *MockStorage) LoadProject(ctx context.Context, id uuid.UUID) (*project.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, exists := m.projects[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	var rec project.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *MockStorage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	return nil
}

func (m *MockStorage) ListProjects(ctx context.Context) ([]project.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]project.Summary, 0, len(m.projects))
	for _, data := range m.projects {
		var rec project.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
		result = append(result, rec.Summary())
	}
	project.SortSummaries(result)
	return result, nil
}

func (m *MockStorage) ListRosters(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.rosters)), nil
}

func (m *MockStorage) GetRoster(ctx context.Context, filename string) (*roster.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, exists := m.rosters[filename]
	if !exists {
		return nil, errors.New("roster not found")
	}
	var f roster.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster %s: %w", filename, err)
	}
	return &f, nil
}

// AddRoster adds a roster file to the mock storage (for testing)
func (m *MockStorage) AddRoster(filename string, f *roster.File) {
	data, err := json.Marshal(f)
	if err != nil {
		panic(fmt.Sprintf("mock roster %s: %v", filename, err))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[filename] = data
}
