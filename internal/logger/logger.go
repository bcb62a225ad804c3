// Package logger configures structured logging for the Corpus CLI.
// Logs always go to stderr: stdout is reserved for command output and,
// under the MCP stdio transport, for protocol frames.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// SetOutput redirects log output. Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Setup configures the global logger from settings. Format "pretty" renders
// human-readable console lines; "json" emits one JSON object per line.
func Setup(cfg domain.LogSettings) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	mu.Lock()
	w := output
	mu.Unlock()

	if cfg.Format == "pretty" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// SetVerbose drops the global level to debug, regardless of configuration.
// Wired to the --verbose flag.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// For returns a logger tagged with a component name.
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
