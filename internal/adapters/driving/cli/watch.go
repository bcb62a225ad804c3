package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var watchStoreName string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Auto-upload files from a directory as they change",
	Long: `Watches a directory tree and uploads every created or modified file
with a supported extension into the given store. Each document's
display name is its path relative to the watched root.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchStoreName, "store", "", "target store (required)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoBackend
	}
	if watchStoreName == "" {
		return fmt.Errorf("%w: --store is required", domain.ErrInvalidInput)
	}
	storeName := qualifyStoreName(watchStoreName)
	ctx := cmd.Context()

	// The callback closes over the watcher to resolve paths against its
	// root; events only arrive after Run, well past the assignment.
	var watcher *watch.Watcher
	watcher, err := watch.New(args[0], func(path string) {
		uploadWatched(ctx, cmd, storeName, watcher.Root(), path)
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s; uploads target %s. Press Ctrl+C to stop.\n", watcher.Root(), storeName)
	return watcher.Run(ctx)
}

func uploadWatched(ctx context.Context, cmd *cobra.Command, storeName, root, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		cmd.PrintErrf("skip %s: %v\n", path, err)
		return
	}

	displayName, err := filepath.Rel(root, path)
	if err != nil {
		displayName = filepath.Base(path)
	}
	displayName = filepath.ToSlash(displayName)

	result, err := documentService.Upload(ctx, domain.UploadRequest{
		StoreName:   storeName,
		Content:     content,
		DisplayName: displayName,
	})
	if err != nil {
		cmd.PrintErrf("upload %s: %v\n", displayName, err)
		return
	}
	cmd.Printf("Uploaded %s (%s)\n", displayName, result.OperationName)
}
