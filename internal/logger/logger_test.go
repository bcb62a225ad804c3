package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// TestSetup tests level parsing and structured output
func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	require.NoError(t, Setup(domain.LogSettings{Level: "info", Format: "json"}))

	l := For("test")
	l.Info().Str("k", "v").Msg("hello")
	l.Debug().Msg("hidden at info level")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "one JSON line expected, got %q", buf.String())
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "v", line["k"])
}

// TestSetup_BadLevel tests rejection of unknown levels
func TestSetup_BadLevel(t *testing.T) {
	err := Setup(domain.LogSettings{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}

// TestSetVerbose tests the --verbose override
func TestSetVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	require.NoError(t, Setup(domain.LogSettings{Level: "warn", Format: "json"}))
	SetVerbose(true)

	l := For("test")
	l.Debug().Msg("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
