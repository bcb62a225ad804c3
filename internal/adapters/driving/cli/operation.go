package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	opWaitInterval time.Duration
	opWaitTimeout  time.Duration
)

var opCmd = &cobra.Command{
	Use:   "op",
	Short: "Inspect long-running backend operations",
}

var opStatusCmd = &cobra.Command{
	Use:   "status [operation]",
	Short: "Show an operation's current state",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpStatus,
}

var opWaitCmd = &cobra.Command{
	Use:   "wait [operation]",
	Short: "Block until an operation finishes",
	Long: `Polls an operation until it reports done. A finished-but-failed
operation exits non-zero so scripts can branch on the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpWait,
}

func init() {
	opWaitCmd.Flags().DurationVar(&opWaitInterval, "interval", 2*time.Second, "poll interval")
	opWaitCmd.Flags().DurationVar(&opWaitTimeout, "timeout", 5*time.Minute, "give up after this long")

	opCmd.AddCommand(opStatusCmd)
	opCmd.AddCommand(opWaitCmd)
	rootCmd.AddCommand(opCmd)
}

func runOpStatus(cmd *cobra.Command, args []string) error {
	if operationService == nil {
		return errNoBackend
	}

	op, err := operationService.Get(cmd.Context(), qualifyOperationName(args[0]))
	if err != nil {
		return fmt.Errorf("get operation: %w", err)
	}

	cmd.Printf("Operation: %s\n", op.Name)
	if !op.Done {
		cmd.Println("  Status: running")
		return nil
	}
	if op.Error != nil {
		cmd.Println("  Status: failed")
		cmd.Printf("  Error:  %s (code %d)\n", op.Error.Message, op.Error.Code)
		return nil
	}
	cmd.Println("  Status: done")
	if name := op.DocumentName(); name != "" {
		cmd.Printf("  Document: %s\n", name)
	}
	return nil
}

func runOpWait(cmd *cobra.Command, args []string) error {
	if operationService == nil {
		return errNoBackend
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opWaitTimeout)
	defer cancel()

	name := qualifyOperationName(args[0])
	op, err := operationService.Wait(ctx, name, opWaitInterval)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", name, err)
	}
	if op.Error != nil {
		return fmt.Errorf("operation %s failed: %s", op.Name, op.Error.Message)
	}

	cmd.Printf("Operation %s finished.\n", op.Name)
	if docName := op.DocumentName(); docName != "" {
		cmd.Printf("  Document: %s\n", docName)
	}
	return nil
}
