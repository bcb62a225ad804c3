package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

var (
	searchStores      []string
	searchModel       string
	searchFilter      string
	searchMaxTokens   int
	searchTemperature float64
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Ask a question grounded in one or more stores",
	Long: `Runs a semantic search across the given stores and prints a generated
answer with the document snippets it was grounded on.

The metadata filter uses the backend's expression syntax, for example
'category = "runbook"' or 'year > 2023'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayVar(&searchStores, "store", nil, "store to search (repeatable, up to 5)")
	searchCmd.Flags().StringVar(&searchModel, "model", "", "model override for answer generation")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "metadata filter expression")
	searchCmd.Flags().IntVar(&searchMaxTokens, "max-tokens", 0, "cap the answer length in tokens")
	searchCmd.Flags().Float64Var(&searchTemperature, "temperature", -1, "sampling temperature override (0 to 2)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNoBackend
	}

	stores := make([]string, 0, len(searchStores))
	for _, s := range searchStores {
		stores = append(stores, qualifyStoreName(s))
	}

	query := domain.SearchQuery{
		Query:           args[0],
		StoreNames:      stores,
		Model:           searchModel,
		MetadataFilter:  searchFilter,
		MaxOutputTokens: searchMaxTokens,
	}
	if searchTemperature >= 0 {
		query.Temperature = &searchTemperature
	}

	result, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	outputSearchText(cmd, result)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, result *domain.SearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, result *domain.SearchResult) {
	if result.Answer == "" {
		cmd.Println("No answer was generated.")
	} else {
		cmd.Println(result.Answer)
	}

	if len(result.Citations) == 0 {
		cmd.Println("\nNo supporting passages were found.")
		return
	}

	cmd.Printf("\nSources (%d):\n", len(result.Citations))
	for i, c := range result.Citations {
		snippet := c.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("  [%d] %s\n", i+1, c.Source)
		if snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
	}
}
