package memory

import (
	"sync"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is an in-memory implementation of driven.SettingsStore.
type SettingsStore struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewSettingsStore creates an in-memory settings store. A nil seed starts
// from the defaults.
func NewSettingsStore(seed *domain.Settings) *SettingsStore {
	settings := domain.DefaultSettings()
	if seed != nil {
		settings = *seed
	}
	return &SettingsStore{settings: settings}
}

// Load returns a copy of the stored settings.
func (s *SettingsStore) Load() (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings
	settings.Normalise()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save replaces the stored settings.
func (s *SettingsStore) Save(settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = *settings
	return nil
}

// SetAPIKey updates just the backend API key.
func (s *SettingsStore) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Backend.APIKey = key
	return nil
}

// Path identifies the store in output that normally names the config file.
func (s *SettingsStore) Path() string {
	return "(in-memory)"
}
