package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage backend credentials",
}

var authSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store the backend API key",
	Long: `Stores the API key in the config file with owner-only permissions.
When no key is given on the command line, prompts for it without echo.

The GEMINI_API_KEY environment variable overrides the stored key at
runtime without modifying the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthSetKey,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential state and verify backend access",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetKeyCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service not initialised")
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		cmd.Print("API key: ")
		key = readPassword()
		cmd.Println()
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("no API key entered")
	}

	if err := settingsService.SetAPIKey(key); err != nil {
		return fmt.Errorf("save API key: %w", err)
	}

	cmd.Printf("API key saved: %s\n", maskAPIKey(key))
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service not initialised")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	if settings.Backend.APIKey == "" {
		cmd.Println("API key:     (not set)")
		cmd.Println("\nSet one with 'corpus auth set-key' or export GEMINI_API_KEY.")
		return nil
	}
	cmd.Printf("API key:     %s\n", maskAPIKey(settings.Backend.APIKey))

	cmd.Print("Backend:     ")
	if err := settingsService.ValidateBackend(cmd.Context()); err != nil {
		cmd.Println("UNREACHABLE")
		return fmt.Errorf("backend check failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read the key without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
