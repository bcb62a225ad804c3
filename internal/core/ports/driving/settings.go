package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetAPIKey stores the backend API key.
	SetAPIKey(key string) error

	// ValidateBackend verifies the configured key against the backend with
	// a minimal call.
	ValidateBackend(ctx context.Context) error

	// ConfigPath returns the configuration file path.
	ConfigPath() string
}
