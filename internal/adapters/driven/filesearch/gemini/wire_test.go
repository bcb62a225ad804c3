package gemini

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func TestInt64String_DecodesQuotedAndBare(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int64
	}{
		{"quoted", `"12345"`, 12345},
		{"bare", `12345`, 12345},
		{"zero", `"0"`, 0},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v int64String
			err := json.Unmarshal([]byte(tc.in), &v)
			require.NoError(t, err)
			assert.Equal(t, tc.want, int64(v))
		})
	}
}

func TestInt64String_RejectsGarbage(t *testing.T) {
	var v int64String
	err := json.Unmarshal([]byte(`"not-a-number"`), &v)
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	parsed := parseTime("2025-03-01T12:30:00Z")
	assert.Equal(t, time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC), parsed)

	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
}

func TestStorePayload_ToDomain(t *testing.T) {
	raw := `{
		"name": "fileSearchStores/abc123",
		"displayName": "Research Notes",
		"activeDocumentsCount": "41",
		"pendingDocumentsCount": "2",
		"failedDocumentsCount": "1",
		"totalDocumentsCount": "44",
		"sizeBytes": "1048576",
		"createTime": "2025-01-15T10:00:00Z"
	}`

	var payload storePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	store := payload.toDomain()
	assert.Equal(t, "fileSearchStores/abc123", store.Name)
	assert.Equal(t, "Research Notes", store.DisplayName)
	assert.Equal(t, int64(41), store.ActiveDocumentsCount)
	assert.Equal(t, int64(2), store.PendingDocumentsCount)
	assert.Equal(t, int64(1), store.FailedDocumentsCount)
	assert.Equal(t, int64(44), store.TotalDocumentsCount)
	assert.Equal(t, int64(1048576), store.SizeBytes)
	assert.Equal(t, 2025, store.CreateTime.Year())
	assert.True(t, store.UpdateTime.IsZero())
}

func TestDocumentStateFromWire(t *testing.T) {
	cases := []struct {
		wire string
		want domain.DocumentState
	}{
		{"STATE_ACTIVE", domain.DocumentStateActive},
		{"ACTIVE", domain.DocumentStateActive},
		{"STATE_PENDING", domain.DocumentStateProcessing},
		{"PENDING", domain.DocumentStateProcessing},
		{"STATE_PROCESSING", domain.DocumentStateProcessing},
		{"STATE_FAILED", domain.DocumentStateFailed},
		{"FAILED", domain.DocumentStateFailed},
		{"STATE_UNSPECIFIED", domain.DocumentStateUnknown},
		{"", domain.DocumentStateUnknown},
		{"SOMETHING_NEW", domain.DocumentStateUnknown},
	}

	for _, tc := range cases {
		t.Run("wire "+tc.wire, func(t *testing.T) {
			assert.Equal(t, tc.want, documentStateFromWire(tc.wire))
		})
	}
}

func TestMetadataWireRoundTrip(t *testing.T) {
	str := "go"
	num := 4.5
	entries := []domain.MetadataEntry{
		{Key: "language", StringValue: &str},
		{Key: "rating", NumericValue: &num},
		{Key: "tags", StringListValue: []string{"infra", "search"}},
	}

	payloads := metadataToWire(entries)
	require.Len(t, payloads, 3)
	require.NotNil(t, payloads[2].StringListValue)
	assert.Equal(t, []string{"infra", "search"}, payloads[2].StringListValue.Values)

	back := metadataFromWire(payloads)
	assert.Equal(t, entries, back)
}

func TestMetadataToWire_EmptyIsNil(t *testing.T) {
	assert.Nil(t, metadataToWire(nil))
	assert.Nil(t, metadataFromWire(nil))
}

func TestChunkingToWire(t *testing.T) {
	assert.Nil(t, chunkingToWire(domain.ChunkingConfig{}))

	payload := chunkingToWire(domain.ChunkingConfig{MaxTokensPerChunk: 300, MaxOverlapTokens: 30})
	require.NotNil(t, payload)
	require.NotNil(t, payload.WhiteSpaceConfig)
	assert.Equal(t, 300, payload.WhiteSpaceConfig.MaxTokensPerChunk)
	assert.Equal(t, 30, payload.WhiteSpaceConfig.MaxOverlapTokens)
}

func TestOperationPayload_ToDomain(t *testing.T) {
	raw := `{
		"name": "operations/op-1",
		"done": true,
		"error": {"code": 13, "message": "internal failure"},
		"metadata": {"document_name": "fileSearchStores/s/documents/d"}
	}`

	var payload operationPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	op := payload.toDomain()
	assert.Equal(t, "operations/op-1", op.Name)
	assert.True(t, op.Done)
	require.NotNil(t, op.Error)
	assert.Equal(t, 13, op.Error.Code)
	assert.Equal(t, "internal failure", op.Error.Message)
	assert.False(t, op.Succeeded())
	assert.Equal(t, "fileSearchStores/s/documents/d", op.DocumentName())
}

func TestCitationsFromWire(t *testing.T) {
	chunks := []groundingChunkPayload{
		{RetrievedContext: &retrievedContextPayload{
			URI:   "fileSearchStores/s/documents/d1",
			Title: "design.md",
			Text:  "The journal is written before any destructive call.",
		}},
		{RetrievedContext: &retrievedContextPayload{
			URI: "fileSearchStores/s/documents/d2",
		}},
		{Web: &webChunkPayload{URI: "https://example.com", Title: "Example"}},
		{}, // nothing recognised, skipped
	}

	citations := citationsFromWire(chunks)
	require.Len(t, citations, 3)

	assert.Equal(t, "design.md", citations[0].Source)
	assert.Equal(t, "The journal is written before any destructive call.", citations[0].Snippet)
	assert.Equal(t, "fileSearchStores/s/documents/d1", citations[0].Metadata["uri"])

	// Title falls back to the URI when absent.
	assert.Equal(t, "fileSearchStores/s/documents/d2", citations[1].Source)

	assert.Equal(t, "Example", citations[2].Source)
	assert.Equal(t, "https://example.com", citations[2].Metadata["uri"])
}

func TestCitationsFromWire_NoChunks(t *testing.T) {
	assert.Empty(t, citationsFromWire(nil))
}
