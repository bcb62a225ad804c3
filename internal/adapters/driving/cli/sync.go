package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

var (
	syncStore  string
	syncRef    string
	syncPath   string
	syncMeta   []string
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [owner/repo]",
	Short: "Bulk-ingest a GitHub repository into a store",
	Long: `Walks a repository tree and uploads every supported file into a store.
Each document carries a "source" metadata entry with its repository
path, so search filters can target specific directories later.

Files with unsupported extensions are skipped, and per-file failures
are reported at the end without aborting the run. Private repositories
need a token in the config file ('corpus auth status' shows its path).`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncStore, "store", "", "target store (required)")
	syncCmd.Flags().StringVar(&syncRef, "ref", "", "branch, tag, or commit (default: the default branch)")
	syncCmd.Flags().StringVar(&syncPath, "path", "", "only ingest files under this path")
	syncCmd.Flags().StringArrayVar(&syncMeta, "meta", nil, "extra metadata for every document, key=value (repeatable)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "list what would be uploaded without uploading")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errNoBackend
	}

	owner, repo, found := strings.Cut(args[0], "/")
	if !found || owner == "" || repo == "" {
		return fmt.Errorf("%w: repository must be given as owner/repo", domain.ErrInvalidInput)
	}
	if syncStore == "" {
		return fmt.Errorf("%w: --store is required", domain.ErrInvalidInput)
	}
	metadata, err := parseMetadataFlags(syncMeta)
	if err != nil {
		return err
	}

	report, err := syncService.SyncRepository(cmd.Context(), driving.SyncRequest{
		Owner:      owner,
		Repo:       repo,
		Ref:        syncRef,
		StoreName:  qualifyStoreName(syncStore),
		PathPrefix: syncPath,
		Metadata:   metadata,
		DryRun:     syncDryRun,
	})
	if err != nil {
		return fmt.Errorf("sync %s/%s: %w", owner, repo, err)
	}

	verb := "Uploaded"
	if syncDryRun {
		verb = "Would upload"
	}
	cmd.Printf("Synced %s/%s@%s into %s\n", owner, repo, report.Ref, report.StoreName)
	cmd.Printf("  %s: %d files\n", verb, report.Uploaded)
	cmd.Printf("  Skipped:  %d files\n", report.Skipped)

	if len(report.Failures) > 0 {
		cmd.Printf("\nFailures (%d):\n", len(report.Failures))
		for _, f := range report.Failures {
			cmd.Printf("  %s: %s\n", f.Path, f.Err)
		}
		return fmt.Errorf("%d of %d files failed to ingest", len(report.Failures), report.Uploaded+len(report.Failures))
	}
	if !syncDryRun && report.Uploaded > 0 {
		cmd.Println("\nIndexing runs in the background; check progress with 'corpus store stats'.")
	}
	return nil
}
