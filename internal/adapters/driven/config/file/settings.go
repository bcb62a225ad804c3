package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// Environment variables layered over the file on every load. The API key
// override matches what the backend's own tooling reads, so a key configured
// for it works here unchanged.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvGitHubToken = "GITHUB_TOKEN"
)

// SettingsStore is a TOML-file implementation of driven.SettingsStore.
// Settings live in a single file under the corpus config directory.
type SettingsStore struct {
	mu        sync.Mutex
	configDir string
	filePath  string
}

// NewSettingsStore creates a settings store rooted at configDir.
// If configDir is empty, defaults to ~/.corpus.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".corpus")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		configDir: configDir,
		filePath:  filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the file, layers environment overrides on top,
// and fills the gaps with defaults. A missing file is not an error; it
// yields the defaults.
func (s *SettingsStore) Load() (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.readFile()
	if err != nil {
		return nil, err
	}

	settings := f.toSettings()
	applyEnv(&settings)
	settings.Normalise()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save persists the settings, replacing the file.
func (s *SettingsStore) Save(settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(fromSettings(*settings))
}

// SetAPIKey persists just the backend API key, preserving every other value
// already in the file. Environment overrides are deliberately not written
// back.
func (s *SettingsStore) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.readFile()
	if err != nil {
		return err
	}
	f.Backend.APIKey = key
	return s.writeFile(f)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// ConfigDir returns the directory the configuration lives in. Local state
// such as the update journal defaults to a data/ directory beneath it.
func (s *SettingsStore) ConfigDir() string {
	return s.configDir
}

func (s *SettingsStore) readFile() (settingsFile, error) {
	var f settingsFile
	raw, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, s.filePath, err)
	}
	return f, nil
}

func (s *SettingsStore) writeFile(f settingsFile) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	// The file can hold credentials, so keep it owner-only.
	return os.WriteFile(s.filePath, data, 0600)
}

// applyEnv layers process environment variables over file values. The
// environment wins so a key rotation does not require editing the file.
func applyEnv(settings *domain.Settings) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		settings.Backend.APIKey = key
	}
	if token := os.Getenv(EnvGitHubToken); token != "" {
		settings.GitHub.Token = token
	}
}

// settingsFile is the on-disk TOML shape. Durations are written as integer
// seconds so the file stays editable without knowing Go duration syntax.
type settingsFile struct {
	Backend backendSection `toml:"backend"`
	Retry   retrySection   `toml:"retry"`
	Search  searchSection  `toml:"search"`
	Upload  uploadSection  `toml:"upload"`
	Journal journalSection `toml:"journal"`
	Log     logSection     `toml:"log"`
	GitHub  githubSection  `toml:"github"`
}

type backendSection struct {
	APIKey                string  `toml:"api_key,omitempty"`
	BaseURL               string  `toml:"base_url,omitempty"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds,omitempty"`
	UploadTimeoutSeconds  int     `toml:"upload_timeout_seconds,omitempty"`
	RequestsPerSecond     float64 `toml:"requests_per_second,omitempty"`
	Burst                 int     `toml:"burst,omitempty"`
}

type retrySection struct {
	MaxAttempts     int `toml:"max_attempts,omitempty"`
	BaseWaitSeconds int `toml:"base_wait_seconds,omitempty"`
	MaxWaitSeconds  int `toml:"max_wait_seconds,omitempty"`
}

type searchSection struct {
	DefaultModel string `toml:"default_model,omitempty"`
	MaxStores    int    `toml:"max_stores,omitempty"`
}

type uploadSection struct {
	MaxFileSizeBytes   int64 `toml:"max_file_size_bytes,omitempty"`
	ChunkTokens        int   `toml:"chunk_tokens,omitempty"`
	ChunkOverlapTokens int   `toml:"chunk_overlap_tokens,omitempty"`
}

type journalSection struct {
	// Enabled is a pointer so an absent key means "default" rather than
	// "disabled".
	Enabled *bool  `toml:"enabled,omitempty"`
	Path    string `toml:"path,omitempty"`
}

type logSection struct {
	Level  string `toml:"level,omitempty"`
	Format string `toml:"format,omitempty"`
}

type githubSection struct {
	Token string `toml:"token,omitempty"`
}

func (f settingsFile) toSettings() domain.Settings {
	settings := domain.Settings{
		Backend: domain.BackendSettings{
			APIKey:            f.Backend.APIKey,
			BaseURL:           f.Backend.BaseURL,
			RequestTimeout:    time.Duration(f.Backend.RequestTimeoutSeconds) * time.Second,
			UploadTimeout:     time.Duration(f.Backend.UploadTimeoutSeconds) * time.Second,
			RequestsPerSecond: f.Backend.RequestsPerSecond,
			Burst:             f.Backend.Burst,
		},
		Retry: domain.RetrySettings{
			MaxAttempts: f.Retry.MaxAttempts,
			BaseWait:    time.Duration(f.Retry.BaseWaitSeconds) * time.Second,
			MaxWait:     time.Duration(f.Retry.MaxWaitSeconds) * time.Second,
		},
		Search: domain.SearchSettings{
			DefaultModel: f.Search.DefaultModel,
			MaxStores:    f.Search.MaxStores,
		},
		Upload: domain.UploadSettings{
			MaxFileSizeBytes:   f.Upload.MaxFileSizeBytes,
			ChunkTokens:        f.Upload.ChunkTokens,
			ChunkOverlapTokens: f.Upload.ChunkOverlapTokens,
		},
		Journal: domain.JournalSettings{
			Enabled: f.Journal.Enabled == nil || *f.Journal.Enabled,
			Path:    f.Journal.Path,
		},
		Log: domain.LogSettings{
			Level:  f.Log.Level,
			Format: f.Log.Format,
		},
		GitHub: domain.GitHubSettings{
			Token: f.GitHub.Token,
		},
	}
	return settings
}

func fromSettings(s domain.Settings) settingsFile {
	enabled := s.Journal.Enabled
	return settingsFile{
		Backend: backendSection{
			APIKey:                s.Backend.APIKey,
			BaseURL:               s.Backend.BaseURL,
			RequestTimeoutSeconds: int(s.Backend.RequestTimeout / time.Second),
			UploadTimeoutSeconds:  int(s.Backend.UploadTimeout / time.Second),
			RequestsPerSecond:     s.Backend.RequestsPerSecond,
			Burst:                 s.Backend.Burst,
		},
		Retry: retrySection{
			MaxAttempts:     s.Retry.MaxAttempts,
			BaseWaitSeconds: int(s.Retry.BaseWait / time.Second),
			MaxWaitSeconds:  int(s.Retry.MaxWait / time.Second),
		},
		Search: searchSection{
			DefaultModel: s.Search.DefaultModel,
			MaxStores:    s.Search.MaxStores,
		},
		Upload: uploadSection{
			MaxFileSizeBytes:   s.Upload.MaxFileSizeBytes,
			ChunkTokens:        s.Upload.ChunkTokens,
			ChunkOverlapTokens: s.Upload.ChunkOverlapTokens,
		},
		Journal: journalSection{
			Enabled: &enabled,
			Path:    s.Journal.Path,
		},
		Log: logSection{
			Level:  s.Log.Level,
			Format: s.Log.Format,
		},
		GitHub: githubSection{
			Token: s.GitHub.Token,
		},
	}
}
