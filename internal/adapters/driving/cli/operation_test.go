package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func TestOpCmd_Use(t *testing.T) {
	assert.Equal(t, "op", opCmd.Use)
}

func TestOpStatusCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"op", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestOpStatusCmd_Running(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	operationService = &mockOperationService{
		operation: &domain.Operation{Name: "operations/op-1", Done: false},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"op", "status", "op-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Status: running")
}

func TestOpStatusCmd_Done(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	operationService = &mockOperationService{
		operation: &domain.Operation{
			Name: "operations/op-1",
			Done: true,
			Metadata: map[string]any{
				"document_name": "fileSearchStores/s/documents/d",
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"op", "status", "op-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Status: done")
	assert.Contains(t, buf.String(), "fileSearchStores/s/documents/d")
}

func TestOpStatusCmd_Failed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	operationService = &mockOperationService{
		operation: &domain.Operation{
			Name:  "operations/op-1",
			Done:  true,
			Error: &domain.OperationError{Code: 8, Message: "quota exhausted"},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"op", "status", "op-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err, "status reports a failed operation without erroring itself")
	assert.Contains(t, buf.String(), "Status: failed")
	assert.Contains(t, buf.String(), "quota exhausted")
}

func TestOpWaitCmd_FailedOperationErrors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	operationService = &mockOperationService{
		operation: &domain.Operation{
			Name:  "operations/op-1",
			Done:  true,
			Error: &domain.OperationError{Code: 13, Message: "ingestion crashed"},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"op", "wait", "op-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion crashed")
}

func TestOpWaitCmd_Succeeds(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"op", "wait", "op-upload-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "finished")
}

func TestOpWaitCmd_HasIntervalFlag(t *testing.T) {
	flag := opWaitCmd.Flags().Lookup("interval")
	require.NotNil(t, flag, "interval flag should exist")
	assert.Equal(t, "2s", flag.DefValue)
}
