package domain

import (
	"fmt"
	"time"
)

// Default configuration values. Every recognised option is enumerated here;
// map-shaped configuration does not exist in this codebase.
const (
	// DefaultModel is the generation model used when a search does not
	// override it.
	DefaultModel = "gemini-2.5-flash"

	// DefaultMaxUploadBytes is the upload size ceiling.
	DefaultMaxUploadBytes = 100 * 1024 * 1024

	// DefaultChunkTokens is the default chunk size passed to the backend.
	DefaultChunkTokens = 200

	// DefaultChunkOverlapTokens is the default chunk overlap.
	DefaultChunkOverlapTokens = 20

	// DefaultRetryAttempts bounds retries of mutating backend calls.
	DefaultRetryAttempts = 3

	// DefaultRetryBaseWait is the first retry wait.
	DefaultRetryBaseWait = 2 * time.Second

	// DefaultRetryMaxWait caps the exponential retry wait.
	DefaultRetryMaxWait = 10 * time.Second

	// DefaultRequestTimeout bounds metadata and listing calls.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultUploadTimeout bounds large content uploads.
	DefaultUploadTimeout = 5 * time.Minute
)

// BackendSettings configures the file-search backend transport.
type BackendSettings struct {
	// APIKey authenticates against the backend. Required for any call.
	APIKey string

	// BaseURL overrides the backend endpoint. Empty means the production
	// endpoint.
	BaseURL string

	// RequestTimeout bounds metadata, listing, and generation calls.
	RequestTimeout time.Duration

	// UploadTimeout bounds content uploads, which move up to
	// Upload.MaxFileSizeBytes of data.
	UploadTimeout time.Duration

	// RequestsPerSecond is the sustained client-side rate limit.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int
}

// RetrySettings configures the bounded exponential backoff applied to
// mutating backend calls.
type RetrySettings struct {
	// MaxAttempts is the total number of tries, first call included.
	MaxAttempts int

	// BaseWait is the wait before the second attempt.
	BaseWait time.Duration

	// MaxWait caps the exponential wait.
	MaxWait time.Duration
}

// SearchSettings configures grounded search.
type SearchSettings struct {
	// DefaultModel is used when a query does not name a model.
	DefaultModel string

	// MaxStores caps stores per query. Never above MaxSearchStores.
	MaxStores int
}

// UploadSettings configures document ingestion.
type UploadSettings struct {
	// MaxFileSizeBytes rejects larger uploads before any network call.
	MaxFileSizeBytes int64

	// ChunkTokens is the default chunk size sent with uploads that do not
	// override chunking.
	ChunkTokens int

	// ChunkOverlapTokens is the default chunk overlap.
	ChunkOverlapTokens int
}

// JournalSettings configures the metadata-update journal.
type JournalSettings struct {
	// Enabled buffers original bytes before the delete step of a metadata
	// update, so a failed re-import can be replayed. Disabling it widens
	// the loss window to the whole saga.
	Enabled bool

	// Path is the journal database location. Empty means
	// ~/.corpus/data/journal.db.
	Path string
}

// LogSettings configures diagnostic output.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "json" or "pretty".
	Format string
}

// GitHubSettings configures the bulk-ingest connector.
type GitHubSettings struct {
	// Token authenticates GitHub API calls. Empty limits sync to public
	// repositories at anonymous rate limits.
	Token string
}

// Settings is the full application configuration.
type Settings struct {
	Backend BackendSettings
	Retry   RetrySettings
	Search  SearchSettings
	Upload  UploadSettings
	Journal JournalSettings
	Log     LogSettings
	GitHub  GitHubSettings
}

// DefaultSettings returns a fully populated configuration. The API key and
// GitHub token are left empty; they come from the config file or the
// environment.
func DefaultSettings() Settings {
	return Settings{
		Backend: BackendSettings{
			RequestTimeout:    DefaultRequestTimeout,
			UploadTimeout:     DefaultUploadTimeout,
			RequestsPerSecond: 5.0,
			Burst:             10,
		},
		Retry: RetrySettings{
			MaxAttempts: DefaultRetryAttempts,
			BaseWait:    DefaultRetryBaseWait,
			MaxWait:     DefaultRetryMaxWait,
		},
		Search: SearchSettings{
			DefaultModel: DefaultModel,
			MaxStores:    MaxSearchStores,
		},
		Upload: UploadSettings{
			MaxFileSizeBytes:   DefaultMaxUploadBytes,
			ChunkTokens:        DefaultChunkTokens,
			ChunkOverlapTokens: DefaultChunkOverlapTokens,
		},
		Journal: JournalSettings{
			Enabled: true,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// Normalise fills zero-valued fields with defaults so partially written
// config files still yield a complete configuration.
func (s *Settings) Normalise() {
	defaults := DefaultSettings()
	if s.Backend.RequestTimeout == 0 {
		s.Backend.RequestTimeout = defaults.Backend.RequestTimeout
	}
	if s.Backend.UploadTimeout == 0 {
		s.Backend.UploadTimeout = defaults.Backend.UploadTimeout
	}
	if s.Backend.RequestsPerSecond == 0 {
		s.Backend.RequestsPerSecond = defaults.Backend.RequestsPerSecond
	}
	if s.Backend.Burst == 0 {
		s.Backend.Burst = defaults.Backend.Burst
	}
	if s.Retry.MaxAttempts == 0 {
		s.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	}
	if s.Retry.BaseWait == 0 {
		s.Retry.BaseWait = defaults.Retry.BaseWait
	}
	if s.Retry.MaxWait == 0 {
		s.Retry.MaxWait = defaults.Retry.MaxWait
	}
	if s.Search.DefaultModel == "" {
		s.Search.DefaultModel = defaults.Search.DefaultModel
	}
	if s.Search.MaxStores == 0 {
		s.Search.MaxStores = defaults.Search.MaxStores
	}
	if s.Upload.MaxFileSizeBytes == 0 {
		s.Upload.MaxFileSizeBytes = defaults.Upload.MaxFileSizeBytes
	}
	if s.Upload.ChunkTokens == 0 {
		s.Upload.ChunkTokens = defaults.Upload.ChunkTokens
	}
	if s.Upload.ChunkOverlapTokens == 0 {
		s.Upload.ChunkOverlapTokens = defaults.Upload.ChunkOverlapTokens
	}
	if s.Log.Level == "" {
		s.Log.Level = defaults.Log.Level
	}
	if s.Log.Format == "" {
		s.Log.Format = defaults.Log.Format
	}
}

// Validate checks option ranges. It does not require an API key; commands
// that need one check for it when they run.
func (s Settings) Validate() error {
	if s.Search.MaxStores < 1 || s.Search.MaxStores > MaxSearchStores {
		return fmt.Errorf("%w: search.max_stores must be between 1 and %d", ErrInvalidInput, MaxSearchStores)
	}
	if s.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be at least 1", ErrInvalidInput)
	}
	if s.Retry.BaseWait < 0 || s.Retry.MaxWait < 0 {
		return fmt.Errorf("%w: retry waits must not be negative", ErrInvalidInput)
	}
	if s.Upload.MaxFileSizeBytes < 1 {
		return fmt.Errorf("%w: upload.max_file_size_bytes must be positive", ErrInvalidInput)
	}
	if s.Upload.ChunkOverlapTokens >= s.Upload.ChunkTokens {
		return fmt.Errorf("%w: upload.chunk_overlap_tokens must be smaller than upload.chunk_tokens", ErrInvalidInput)
	}
	switch s.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("%w: log.format must be json or pretty", ErrInvalidInput)
	}
	return nil
}
