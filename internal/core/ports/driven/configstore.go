package driven

import "github.com/custodia-labs/corpus-cli/internal/core/domain"

// SettingsStore loads and persists the application settings.
// Implementations handle the storage format (TOML) and environment
// overrides; the settings they return are already normalised and validated.
type SettingsStore interface {
	// Load reads settings from storage. A missing file yields the defaults,
	// not an error.
	Load() (*domain.Settings, error)

	// Save persists the settings.
	Save(settings *domain.Settings) error

	// SetAPIKey persists just the backend API key, preserving everything
	// else in the file.
	SetAPIKey(key string) error

	// Path returns the configuration file path.
	Path() string
}
