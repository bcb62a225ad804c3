package gemini

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// The REST surface follows the proto3 JSON mapping: int64 fields arrive as
// quoted strings, timestamps as RFC 3339, enums as SCREAMING_SNAKE strings.
// The payload types below decode that shape and convert to domain types at
// the package boundary; nothing above this package sees wire names.

// int64String decodes an int64 the API may encode as either a JSON string
// or a bare number.
type int64String int64

func (v *int64String) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*v = int64String(n)
	return nil
}

// parseTime decodes an RFC 3339 timestamp, returning the zero time for
// absent or malformed values.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

type storePayload struct {
	Name                  string      `json:"name,omitempty"`
	DisplayName           string      `json:"displayName,omitempty"`
	ActiveDocumentsCount  int64String `json:"activeDocumentsCount,omitempty"`
	PendingDocumentsCount int64String `json:"pendingDocumentsCount,omitempty"`
	FailedDocumentsCount  int64String `json:"failedDocumentsCount,omitempty"`
	TotalDocumentsCount   int64String `json:"totalDocumentsCount,omitempty"`
	SizeBytes             int64String `json:"sizeBytes,omitempty"`
	CreateTime            string      `json:"createTime,omitempty"`
	UpdateTime            string      `json:"updateTime,omitempty"`
}

func (p storePayload) toDomain() domain.Store {
	return domain.Store{
		Name:                  p.Name,
		DisplayName:           p.DisplayName,
		ActiveDocumentsCount:  int64(p.ActiveDocumentsCount),
		PendingDocumentsCount: int64(p.PendingDocumentsCount),
		FailedDocumentsCount:  int64(p.FailedDocumentsCount),
		TotalDocumentsCount:   int64(p.TotalDocumentsCount),
		SizeBytes:             int64(p.SizeBytes),
		CreateTime:            parseTime(p.CreateTime),
		UpdateTime:            parseTime(p.UpdateTime),
	}
}

type listStoresResponse struct {
	FileSearchStores []storePayload `json:"fileSearchStores"`
	NextPageToken    string         `json:"nextPageToken,omitempty"`
}

type documentPayload struct {
	Name           string            `json:"name,omitempty"`
	DisplayName    string            `json:"displayName,omitempty"`
	State          string            `json:"state,omitempty"`
	MimeType       string            `json:"mimeType,omitempty"`
	SizeBytes      int64String       `json:"sizeBytes,omitempty"`
	CustomMetadata []metadataPayload `json:"customMetadata,omitempty"`
	CreateTime     string            `json:"createTime,omitempty"`
	UpdateTime     string            `json:"updateTime,omitempty"`
}

func (p documentPayload) toDomain() domain.Document {
	return domain.Document{
		Name:           p.Name,
		DisplayName:    p.DisplayName,
		State:          documentStateFromWire(p.State),
		SizeBytes:      int64(p.SizeBytes),
		MIMEType:       p.MimeType,
		CustomMetadata: metadataFromWire(p.CustomMetadata),
		CreateTime:     parseTime(p.CreateTime),
		UpdateTime:     parseTime(p.UpdateTime),
	}
}

// documentStateFromWire maps the backend's state enum onto the domain
// states. The wire prefixes values with STATE_ and calls the initial state
// PENDING; anything unrecognised (including an omitted state) is UNKNOWN.
func documentStateFromWire(s string) domain.DocumentState {
	switch strings.TrimPrefix(s, "STATE_") {
	case "PENDING", "PROCESSING":
		return domain.DocumentStateProcessing
	case "ACTIVE":
		return domain.DocumentStateActive
	case "FAILED":
		return domain.DocumentStateFailed
	default:
		return domain.DocumentStateUnknown
	}
}

type listDocumentsResponse struct {
	Documents     []documentPayload `json:"documents"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

type metadataPayload struct {
	Key             string             `json:"key"`
	StringValue     *string            `json:"stringValue,omitempty"`
	NumericValue    *float64           `json:"numericValue,omitempty"`
	StringListValue *stringListPayload `json:"stringListValue,omitempty"`
}

type stringListPayload struct {
	Values []string `json:"values"`
}

func metadataToWire(entries []domain.MetadataEntry) []metadataPayload {
	if len(entries) == 0 {
		return nil
	}
	out := make([]metadataPayload, 0, len(entries))
	for _, e := range entries {
		p := metadataPayload{
			Key:          e.Key,
			StringValue:  e.StringValue,
			NumericValue: e.NumericValue,
		}
		if e.StringListValue != nil {
			p.StringListValue = &stringListPayload{Values: e.StringListValue}
		}
		out = append(out, p)
	}
	return out
}

func metadataFromWire(payloads []metadataPayload) []domain.MetadataEntry {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]domain.MetadataEntry, 0, len(payloads))
	for _, p := range payloads {
		e := domain.MetadataEntry{
			Key:          p.Key,
			StringValue:  p.StringValue,
			NumericValue: p.NumericValue,
		}
		if p.StringListValue != nil {
			e.StringListValue = p.StringListValue.Values
		}
		out = append(out, e)
	}
	return out
}

type chunkingConfigPayload struct {
	WhiteSpaceConfig *whiteSpaceConfigPayload `json:"whiteSpaceConfig,omitempty"`
}

type whiteSpaceConfigPayload struct {
	MaxTokensPerChunk int `json:"maxTokensPerChunk,omitempty"`
	MaxOverlapTokens  int `json:"maxOverlapTokens,omitempty"`
}

func chunkingToWire(c domain.ChunkingConfig) *chunkingConfigPayload {
	if c.IsZero() {
		return nil
	}
	return &chunkingConfigPayload{
		WhiteSpaceConfig: &whiteSpaceConfigPayload{
			MaxTokensPerChunk: c.MaxTokensPerChunk,
			MaxOverlapTokens:  c.MaxOverlapTokens,
		},
	}
}

type operationPayload struct {
	Name     string         `json:"name,omitempty"`
	Done     bool           `json:"done,omitempty"`
	Error    *statusPayload `json:"error,omitempty"`
	Response map[string]any `json:"response,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type statusPayload struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details []any  `json:"details,omitempty"`
}

func (p operationPayload) toDomain() domain.Operation {
	op := domain.Operation{
		Name:     p.Name,
		Done:     p.Done,
		Response: p.Response,
		Metadata: p.Metadata,
	}
	if p.Error != nil {
		op.Error = &domain.OperationError{
			Code:    p.Error.Code,
			Message: p.Error.Message,
			Details: p.Error.Details,
		}
	}
	return op
}

type generateContentRequest struct {
	Contents         []contentPayload         `json:"contents"`
	Tools            []toolPayload            `json:"tools,omitempty"`
	GenerationConfig *generationConfigPayload `json:"generationConfig,omitempty"`
}

type contentPayload struct {
	Role  string        `json:"role,omitempty"`
	Parts []partPayload `json:"parts,omitempty"`
}

type partPayload struct {
	Text string `json:"text,omitempty"`
}

type toolPayload struct {
	FileSearch *fileSearchToolPayload `json:"fileSearch,omitempty"`
}

type fileSearchToolPayload struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
	MetadataFilter       string   `json:"metadataFilter,omitempty"`
}

type generationConfigPayload struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type generateContentResponse struct {
	Candidates   []candidatePayload `json:"candidates"`
	ModelVersion string             `json:"modelVersion,omitempty"`
}

type candidatePayload struct {
	Content contentPayload `json:"content"`

	// GroundingMetadata stays raw: it is decoded twice, once into typed
	// grounding chunks for citations and once into a plain map for callers
	// that want everything the backend sent.
	GroundingMetadata json.RawMessage `json:"groundingMetadata,omitempty"`
}

type groundingMetadataPayload struct {
	GroundingChunks []groundingChunkPayload `json:"groundingChunks"`
}

type groundingChunkPayload struct {
	RetrievedContext *retrievedContextPayload `json:"retrievedContext,omitempty"`
	Web              *webChunkPayload         `json:"web,omitempty"`
}

type retrievedContextPayload struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

type webChunkPayload struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// citationsFromWire converts grounding chunks into citations. Chunks with no
// recognised context are skipped rather than emitted empty.
func citationsFromWire(chunks []groundingChunkPayload) []domain.Citation {
	var out []domain.Citation
	for _, chunk := range chunks {
		switch {
		case chunk.RetrievedContext != nil:
			rc := chunk.RetrievedContext
			source := rc.Title
			if source == "" {
				source = rc.URI
			}
			citation := domain.Citation{Source: source, Snippet: rc.Text}
			if rc.URI != "" {
				citation.Metadata = map[string]any{"uri": rc.URI}
			}
			out = append(out, citation)
		case chunk.Web != nil:
			citation := domain.Citation{Source: chunk.Web.Title}
			if chunk.Web.URI != "" {
				citation.Metadata = map[string]any{"uri": chunk.Web.URI}
			}
			out = append(out, citation)
		}
	}
	return out
}
