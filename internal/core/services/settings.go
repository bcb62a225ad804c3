package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	store   driven.SettingsStore
	backend driven.FileSearchService
}

// NewSettingsService creates a new settings service. The backend may be nil
// when no API key is configured yet; ValidateBackend then fails cleanly.
func NewSettingsService(store driven.SettingsStore, backend driven.FileSearchService) *SettingsService {
	return &SettingsService{store: store, backend: backend}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	return s.store.Load()
}

// Save persists application settings after validating them.
func (s *SettingsService) Save(settings *domain.Settings) error {
	settings.Normalise()
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.store.Save(settings)
}

// SetAPIKey stores the backend API key.
func (s *SettingsService) SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: API key must not be empty", domain.ErrInvalidInput)
	}
	return s.store.SetAPIKey(key)
}

// ValidateBackend verifies the configured key against the backend with a
// minimal call.
func (s *SettingsService) ValidateBackend(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("%w: no API key configured", domain.ErrUnauthorized)
	}
	return s.backend.Ping(ctx)
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.store.Path()
}
