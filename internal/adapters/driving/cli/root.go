// Package cli implements the corpus command tree. Commands talk to the core
// through the driving ports, which initServices wires from configuration on
// first use.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/filesearch/gemini"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/corpus-cli/internal/backoff"
	"github.com/custodia-labs/corpus-cli/internal/connectors/github"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/core/services"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

// Command handlers read these package-level services. initServices wires
// them before the first command runs; tests substitute their own.
var (
	settingsService  driving.SettingsService
	storeService     driving.StoreService
	documentService  driving.DocumentService
	searchService    driving.SearchService
	operationService driving.OperationService
	syncService      driving.SyncService

	appSettings   *domain.Settings
	updateJournal driven.UpdateJournal
	servicesReady bool
)

// Persistent flags.
var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage and search document stores on a file-search backend",
	Long: `Corpus creates document stores on a hosted file-search backend, ingests
content into them, and asks grounded questions whose answers cite the
indexed documents.

Most commands need an API key. Set one with 'corpus auth set-key' or the
GEMINI_API_KEY environment variable.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configDir, "config", "", "configuration directory (default ~/.corpus)")
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command tree. The context carries signal cancellation
// from main into long-running commands.
func Execute(ctx context.Context) error {
	defer closeServices()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if hint := hintFor(err); hint != "" {
			rootCmd.PrintErrln(hint)
		}
	}
	return err
}

// initServices builds the service graph from configuration. Commands that
// need no services are skipped so they work with a broken or absent config.
func initServices(cmd *cobra.Command, _ []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "formats", "help", "completion":
			return nil
		}
	}
	if servicesReady {
		return nil
	}

	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(settings.Log); err != nil {
		return err
	}
	logger.SetVerbose(verbose)
	appSettings = settings

	var backend driven.FileSearchService
	if settings.Backend.APIKey != "" {
		client, err := gemini.Default(gemini.ConfigFromSettings(settings.Backend))
		if err != nil {
			return err
		}
		backend = client
	}

	settingsService = services.NewSettingsService(store, backend)
	if backend == nil {
		// Without a key only auth and settings work; the other handlers
		// report the missing backend themselves.
		servicesReady = true
		return nil
	}

	if settings.Journal.Enabled {
		path := settings.Journal.Path
		if path == "" {
			path = filepath.Join(store.ConfigDir(), "data", "journal.db")
		}
		journal, err := sqlite.NewJournal(path)
		if err != nil {
			cliLog := logger.For("cli")
			cliLog.Warn().Err(err).
				Msg("journal unavailable; metadata updates run without a recovery buffer")
		} else {
			updateJournal = journal
		}
	}

	retry := backoff.FromSettings(settings.Retry)
	storeService = services.NewStoreService(backend, retry)
	documentService = services.NewDocumentService(backend, updateJournal, retry, settings.Upload)
	searchService = services.NewSearchService(backend, settings.Search)
	operationService = services.NewOperationService(backend)
	syncService = services.NewSyncService(
		github.NewSource(github.NewClient(settings.GitHub.Token)),
		documentService,
		settings.Upload,
	)

	servicesReady = true
	return nil
}

func closeServices() {
	if updateJournal != nil {
		_ = updateJournal.Close()
		updateJournal = nil
	}
}

// errNoBackend is returned by handlers that need the file-search backend
// when no API key is configured.
var errNoBackend = fmt.Errorf(
	"%w: no API key configured; run 'corpus auth set-key' or set GEMINI_API_KEY", domain.ErrUnauthorized)

// hintFor maps an error's kind to a follow-up line printed under the error.
func hintFor(err error) string {
	switch domain.KindOf(err) {
	case domain.ErrorKindQuota:
		return "The backend quota is exhausted; wait for it to reset before retrying."
	case domain.ErrorKindTransient:
		return "The backend did not respond; retry in a moment."
	case domain.ErrorKindPartial:
		return "Run 'corpus doc recover' to list and replay the journalled update."
	}
	return ""
}

// qualifyStoreName accepts either a full store resource name or a bare ID.
func qualifyStoreName(arg string) string {
	if strings.HasPrefix(arg, domain.StoreCollection+"/") {
		return arg
	}
	return domain.StoreCollection + "/" + arg
}

// qualifyOperationName accepts either a full operation resource name or a
// bare ID. Names nested under another resource pass through untouched.
func qualifyOperationName(arg string) string {
	if strings.Contains(arg, "/") {
		return arg
	}
	return domain.OperationCollection + "/" + arg
}
