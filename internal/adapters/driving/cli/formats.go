package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List content types the backend accepts",
	Long: `Lists the known-accepted MIME types, grouped by category. The list is
advisory: uploads are never blocked locally, the backend has the final
say on what it indexes.`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	categories := make([]string, 0, len(domain.SupportedMIMETypes))
	for category := range domain.SupportedMIMETypes {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	cmd.Println("Supported content types:")
	for _, category := range categories {
		cmd.Printf("\n%s:\n", category)
		types := append([]string(nil), domain.SupportedMIMETypes[category]...)
		sort.Strings(types)
		for _, t := range types {
			cmd.Printf("  %s\n", t)
		}
	}
	return nil
}
