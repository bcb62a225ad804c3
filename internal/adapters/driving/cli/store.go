package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage file-search stores",
	Long:  `Create, list, inspect, and delete document stores on the backend.`,
}

var storeCreateCmd = &cobra.Command{
	Use:   "create [display-name]",
	Short: "Create a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreCreate,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stores",
	RunE:  runStoreList,
}

var storeGetCmd = &cobra.Command{
	Use:   "get [store]",
	Short: "Show store info",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete [store]",
	Short: "Delete a store",
	Long:  `Deletes a store. A store that still contains documents is refused unless --force is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats [store]",
	Short: "Recompute store statistics",
	Long: `Traverses every document in the store and tallies counts, sizes, and
processing states. The tally is computed live and can disagree with the
store's own counters while documents are processing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreStats,
}

// Flags for store list and delete.
var (
	storeListPageSize  int
	storeListPageToken string
	storeDeleteForce   bool
)

func init() {
	storeListCmd.Flags().IntVar(&storeListPageSize, "page-size", 0, "fetch a single page of this size instead of everything")
	storeListCmd.Flags().StringVar(&storeListPageToken, "page-token", "", "resume listing from a previous page token")
	storeDeleteCmd.Flags().BoolVar(&storeDeleteForce, "force", false, "delete even when the store still contains documents")

	storeCmd.AddCommand(storeCreateCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeDeleteCmd)
	storeCmd.AddCommand(storeStatsCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreCreate(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errNoBackend
	}

	store, err := storeService.Create(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	cmd.Printf("Created store: %s\n", store.Name)
	cmd.Printf("  Display name: %s\n", store.DisplayName)
	return nil
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	if storeService == nil {
		return errNoBackend
	}

	var (
		stores    []domain.Store
		nextToken string
		err       error
	)
	if storeListPageSize > 0 || storeListPageToken != "" {
		stores, nextToken, err = storeService.ListPage(cmd.Context(), storeListPageSize, storeListPageToken)
	} else {
		stores, err = storeService.List(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("list stores: %w", err)
	}

	if len(stores) == 0 {
		cmd.Println("No stores found.")
		cmd.Println("Create one with: corpus store create <display-name>")
		return nil
	}

	cmd.Println("Stores:")
	cmd.Println()
	for i := range stores {
		printStore(cmd, &stores[i])
		cmd.Println()
	}
	cmd.Printf("Total: %d stores\n", len(stores))
	if nextToken != "" {
		cmd.Printf("Next page: --page-token %s\n", nextToken)
	}
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errNoBackend
	}

	store, err := storeService.Get(cmd.Context(), qualifyStoreName(args[0]))
	if err != nil {
		return fmt.Errorf("get store: %w", err)
	}

	printStore(cmd, store)
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errNoBackend
	}

	name := qualifyStoreName(args[0])
	if err := storeService.Delete(cmd.Context(), name, storeDeleteForce); err != nil {
		if errors.Is(err, domain.ErrStoreNotEmpty) {
			return fmt.Errorf("store still contains documents; re-run with --force to delete them too: %w", err)
		}
		return fmt.Errorf("delete store: %w", err)
	}

	cmd.Printf("Deleted store: %s\n", name)
	return nil
}

func runStoreStats(cmd *cobra.Command, args []string) error {
	if storeService == nil {
		return errNoBackend
	}

	stats, err := storeService.Statistics(cmd.Context(), qualifyStoreName(args[0]))
	if err != nil {
		return fmt.Errorf("store statistics: %w", err)
	}

	cmd.Printf("Statistics for %s:\n\n", stats.StoreName)
	cmd.Printf("  Documents:  %d\n", stats.DocumentCount)
	cmd.Printf("  Total size: %s\n", formatBytes(stats.TotalSizeBytes))

	if len(stats.StatesBreakdown) > 0 {
		cmd.Println("  States:")
		states := make([]string, 0, len(stats.StatesBreakdown))
		for state := range stats.StatesBreakdown {
			states = append(states, string(state))
		}
		sort.Strings(states)
		for _, state := range states {
			cmd.Printf("    %-12s %d\n", state, stats.StatesBreakdown[domain.DocumentState(state)])
		}
	}
	return nil
}

func printStore(cmd *cobra.Command, store *domain.Store) {
	cmd.Printf("  %s\n", store.Name)
	if store.DisplayName != "" {
		cmd.Printf("    Display name: %s\n", store.DisplayName)
	}
	cmd.Printf("    Documents:    %d active, %d pending, %d failed (%d total)\n",
		store.ActiveDocumentsCount, store.PendingDocumentsCount,
		store.FailedDocumentsCount, store.TotalDocumentsCount)
	if store.SizeBytes > 0 {
		cmd.Printf("    Size:         %s\n", formatBytes(store.SizeBytes))
	}
	if !store.CreateTime.IsZero() {
		cmd.Printf("    Created:      %s\n", store.CreateTime.Format("2006-01-02 15:04:05"))
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
