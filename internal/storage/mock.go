package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/roll"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	characters map[uuid.UUID]*character.Spec
	rolls      map[uuid.UUID][]*roll.Result
	templates  map[string]*character.Spec
	pingError  error
	saveError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		characters: make(map[uuid.UUID]*character.Spec),
		rolls:      make(map[uuid.UUID][]*roll.Result),
		templates:  make(map[string]*character.Spec),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveCharacter and AppendRoll fail
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// AddTemplate registers a template by name
func (m *MockStorage) AddTemplate(name string, spec *character.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[name] = spec
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveCharacter(ctx context.Context, spec *character.Spec) error {
	if spec == nil {
		return errors.New("character cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.characters[spec.ID] = spec.Clone()
	return nil
}

func (m *MockStorage) LoadCharacter(ctx context.Context, id uuid.UUID) (*character.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.characters[id]
	if !ok {
		return nil, nil
	}
	return spec.Clone(), nil
}

func (m *MockStorage) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.characters, id)
	delete(m.rolls, id)
	return nil
}

func (m *MockStorage) ListCharacters(ctx context.Context) ([]*character.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	specs := make([]*character.Spec, 0, len(m.characters))
	for _, spec := range m.characters {
		specs = append(specs, spec.Clone())
	}
	return specs, nil
}

func (m *MockStorage) AppendRoll(ctx context.Context, res *roll.Result) error {
	if res == nil {
		return errors.New("roll result cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.rolls[res.CharacterID] = append(m.rolls[res.CharacterID], res)
	return nil
}

func (m *MockStorage) ListRolls(ctx context.Context, characterID uuid.UUID, limit int) ([]*roll.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.rolls[characterID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]*roll.Result{}, all...), nil
}

func (m *MockStorage) ClearRolls(ctx context.Context, characterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rolls, characterID)
	return nil
}

func (m *MockStorage) ListTemplates(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockStorage) GetTemplate(ctx context.Context, name string) (*character.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.templates[name]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return spec.Clone(), nil
}
