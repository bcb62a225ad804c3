package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/services"
)

func TestAuthCmd_Use(t *testing.T) {
	assert.Equal(t, "auth", authCmd.Use)
}

func TestAuthSetKeyCmd_Use(t *testing.T) {
	assert.Equal(t, "set-key [key]", authSetKeyCmd.Use)
}

func TestAuthSetKeyCmd_SavesKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"auth", "set-key", "sk-test-1234567890abcdef"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "API key saved: sk-t...cdef")
	assert.Contains(t, buf.String(), "(in-memory)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234567890abcdef", settings.Backend.APIKey)
}

func TestAuthStatusCmd_NoKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"auth", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(not set)")
	assert.Contains(t, buf.String(), "corpus auth set-key")
}

func TestAuthStatusCmd_KeySetButBackendMissing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	seed := domain.DefaultSettings()
	seed.Backend.APIKey = "sk-test-1234567890abcdef"
	settingsService = services.NewSettingsService(memory.NewSettingsStore(&seed), nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"auth", "status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err, "a key without a working backend fails the check")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, buf.String(), "sk-t...cdef")
	assert.Contains(t, buf.String(), "UNREACHABLE")
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"short keys are fully masked", "abc", "****"},
		{"eight characters still fully masked", "12345678", "****"},
		{"long keys keep the edges", "sk-test-1234567890abcdef", "sk-t...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}
