package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/normalise"
)

// Every handler below follows one boundary rule: failures are caught here
// and reported through the output's Error field, never as a protocol fault.
// The third return value is always nil so the host keeps running no matter
// what the backend did.

// MetadataEntryInput is one custom metadata entry. Exactly one of
// string_value, numeric_value, or string_list_value must be set.
type MetadataEntryInput struct {
	Key             string   `json:"key" jsonschema:"metadata key"`
	StringValue     *string  `json:"string_value,omitempty" jsonschema:"string value variant"`
	NumericValue    *float64 `json:"numeric_value,omitempty" jsonschema:"numeric value variant"`
	StringListValue []string `json:"string_list_value,omitempty" jsonschema:"string list value variant"`
}

// ChunkingConfigInput tunes how a document is split before indexing.
type ChunkingConfigInput struct {
	MaxTokensPerChunk int `json:"max_tokens_per_chunk,omitempty" jsonschema:"maximum tokens per chunk"`
	MaxOverlapTokens  int `json:"max_overlap_tokens,omitempty" jsonschema:"token overlap between adjacent chunks"`
}

// StoreInfo is the wire projection of a store.
type StoreInfo struct {
	Name                  string `json:"name"`
	DisplayName           string `json:"display_name,omitempty"`
	ActiveDocumentsCount  int64  `json:"active_documents_count,omitempty"`
	PendingDocumentsCount int64  `json:"pending_documents_count,omitempty"`
	FailedDocumentsCount  int64  `json:"failed_documents_count,omitempty"`
	TotalDocumentsCount   int64  `json:"total_documents_count,omitempty"`
	SizeBytes             int64  `json:"size_bytes,omitempty"`
	CreateTime            string `json:"create_time,omitempty"`
	UpdateTime            string `json:"update_time,omitempty"`
}

// DocumentInfo is the wire projection of a document.
type DocumentInfo struct {
	Name           string               `json:"name"`
	DisplayName    string               `json:"display_name,omitempty"`
	State          string               `json:"state"`
	SizeBytes      int64                `json:"size_bytes,omitempty"`
	MIMEType       string               `json:"mime_type,omitempty"`
	CustomMetadata []MetadataEntryInput `json:"custom_metadata,omitempty"`
	CreateTime     string               `json:"create_time,omitempty"`
	UpdateTime     string               `json:"update_time,omitempty"`
}

// CitationInfo links a span of a grounded answer back to a source document.
type CitationInfo struct {
	Source   string         `json:"source"`
	Snippet  string         `json:"snippet,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// OperationErrorInfo is the failure detail of a finished operation.
type OperationErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
}

// CreateStoreInput is the input schema for the create_store tool.
type CreateStoreInput struct {
	DisplayName string `json:"display_name,omitempty" jsonschema:"display name for the store (at most 512 characters)"`
}

// CreateStoreOutput is the output schema for the create_store tool.
type CreateStoreOutput struct {
	StoreName   string     `json:"store_name,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	CreateTime  string     `json:"create_time,omitempty"`
	Error       *ToolError `json:"error,omitempty"`
}

// ListStoresInput is the input schema for the list_stores tool.
type ListStoresInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum stores per page"`
	PageToken string `json:"page_token,omitempty" jsonschema:"pagination token from a previous page"`
}

// ListStoresOutput is the output schema for the list_stores tool.
type ListStoresOutput struct {
	Stores        []StoreInfo `json:"stores"`
	NextPageToken string      `json:"next_page_token,omitempty"`
	Error         *ToolError  `json:"error,omitempty"`
}

// GetStoreInput is the input schema for the get_store tool.
type GetStoreInput struct {
	StoreName string `json:"store_name" jsonschema:"store resource name such as fileSearchStores/my-store"`
}

// GetStoreOutput is the output schema for the get_store tool.
type GetStoreOutput struct {
	Name                  string     `json:"name,omitempty"`
	DisplayName           string     `json:"display_name,omitempty"`
	ActiveDocumentsCount  int64      `json:"active_documents_count,omitempty"`
	PendingDocumentsCount int64      `json:"pending_documents_count,omitempty"`
	FailedDocumentsCount  int64      `json:"failed_documents_count,omitempty"`
	TotalDocumentsCount   int64      `json:"total_documents_count,omitempty"`
	SizeBytes             int64      `json:"size_bytes,omitempty"`
	CreateTime            string     `json:"create_time,omitempty"`
	UpdateTime            string     `json:"update_time,omitempty"`
	Error                 *ToolError `json:"error,omitempty"`
}

// DeleteStoreInput is the input schema for the delete_store tool.
type DeleteStoreInput struct {
	StoreName string `json:"store_name" jsonschema:"store resource name to delete"`
	Force     bool   `json:"force,omitempty" jsonschema:"delete even when the store still contains documents"`
}

// DeleteStoreOutput is the output schema for the delete_store tool.
type DeleteStoreOutput struct {
	Deleted bool       `json:"deleted"`
	Error   *ToolError `json:"error,omitempty"`
}

// UploadFileInput is the input schema for the upload_file tool.
type UploadFileInput struct {
	StoreName       string               `json:"store_name" jsonschema:"target store resource name"`
	FileBytesBase64 string               `json:"file_bytes_base64" jsonschema:"base64-encoded file content"`
	DisplayName     string               `json:"display_name,omitempty" jsonschema:"document display name; also used to guess the MIME type"`
	MIMEType        string               `json:"mime_type,omitempty" jsonschema:"content MIME type; guessed from display_name when omitted"`
	ChunkingConfig  *ChunkingConfigInput `json:"chunking_config,omitempty" jsonschema:"chunking overrides for this upload"`
	CustomMetadata  []MetadataEntryInput `json:"custom_metadata,omitempty" jsonschema:"custom metadata entries (at most 20)"`
}

// UploadFileOutput is the output schema for the upload_file tool.
type UploadFileOutput struct {
	OperationName string     `json:"operation_name,omitempty"`
	DocumentName  string     `json:"document_name,omitempty"`
	Error         *ToolError `json:"error,omitempty"`
}

// ImportFileInput is the input schema for the import_file tool.
type ImportFileInput struct {
	StoreName      string               `json:"store_name" jsonschema:"target store resource name"`
	FileName       string               `json:"file_name" jsonschema:"file service resource name such as files/abc123"`
	DisplayName    string               `json:"display_name,omitempty" jsonschema:"document display name"`
	ChunkingConfig *ChunkingConfigInput `json:"chunking_config,omitempty" jsonschema:"chunking overrides for this import"`
	CustomMetadata []MetadataEntryInput `json:"custom_metadata,omitempty" jsonschema:"custom metadata entries (at most 20)"`
}

// ImportFileOutput is the output schema for the import_file tool.
type ImportFileOutput struct {
	OperationName string     `json:"operation_name,omitempty"`
	DocumentName  string     `json:"document_name,omitempty"`
	Error         *ToolError `json:"error,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	StoreName string `json:"store_name" jsonschema:"store resource name to list documents of"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum documents per page"`
	PageToken string `json:"page_token,omitempty" jsonschema:"pagination token from a previous page"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents     []DocumentInfo `json:"documents"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	Error         *ToolError     `json:"error,omitempty"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	DocumentName string `json:"document_name" jsonschema:"document resource name such as fileSearchStores/my-store/documents/doc-1"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Name           string               `json:"name,omitempty"`
	DisplayName    string               `json:"display_name,omitempty"`
	State          string               `json:"state,omitempty"`
	SizeBytes      int64                `json:"size_bytes,omitempty"`
	MIMEType       string               `json:"mime_type,omitempty"`
	CustomMetadata []MetadataEntryInput `json:"custom_metadata,omitempty"`
	CreateTime     string               `json:"create_time,omitempty"`
	UpdateTime     string               `json:"update_time,omitempty"`
	Error          *ToolError           `json:"error,omitempty"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentName string `json:"document_name" jsonschema:"document resource name to delete"`
	Force        bool   `json:"force,omitempty" jsonschema:"delete even while the document is still processing"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	Deleted bool       `json:"deleted"`
	Error   *ToolError `json:"error,omitempty"`
}

// UpdateDocumentMetadataInput is the input schema for the
// update_document_metadata tool.
type UpdateDocumentMetadataInput struct {
	DocumentName            string               `json:"document_name" jsonschema:"existing document resource name"`
	NewCustomMetadata       []MetadataEntryInput `json:"new_custom_metadata" jsonschema:"replacement custom metadata entries"`
	OriginalFileBytesBase64 string               `json:"original_file_bytes_base64" jsonschema:"base64-encoded original file content, required to re-create the document"`
	DisplayName             string               `json:"display_name,omitempty" jsonschema:"display name override; the existing one is inherited when omitted"`
	MIMEType                string               `json:"mime_type,omitempty" jsonschema:"MIME type override; the existing one is inherited when omitted"`
	ChunkingConfig          *ChunkingConfigInput `json:"chunking_config,omitempty" jsonschema:"chunking overrides for the re-upload"`
}

// UpdateDocumentMetadataOutput is the output schema for the
// update_document_metadata tool.
type UpdateDocumentMetadataOutput struct {
	OperationName   string     `json:"operation_name,omitempty"`
	NewDocumentName string     `json:"new_document_name,omitempty"`
	JournalID       string     `json:"journal_id,omitempty"`
	Error           *ToolError `json:"error,omitempty"`
}

// SearchDocumentsInput is the input schema for the search_documents tool.
type SearchDocumentsInput struct {
	StoreNames      []string `json:"store_names" jsonschema:"store resource names to search (1 to 5)"`
	Query           string   `json:"query" jsonschema:"natural-language question to answer from the stores"`
	Model           string   `json:"model,omitempty" jsonschema:"model identifier; the configured default applies when omitted"`
	MetadataFilter  string   `json:"metadata_filter,omitempty" jsonschema:"filter expression over document custom metadata"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" jsonschema:"cap on the generated answer length"`
	Temperature     *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature override"`
}

// SearchDocumentsOutput is the output schema for the search_documents tool.
type SearchDocumentsOutput struct {
	AnswerText        string         `json:"answer_text"`
	Citations         []CitationInfo `json:"citations"`
	GroundingMetadata map[string]any `json:"grounding_metadata,omitempty"`
	UsedStores        []string       `json:"used_stores,omitempty"`
	Model             string         `json:"model,omitempty"`
	Error             *ToolError     `json:"error,omitempty"`
}

// GetOperationStatusInput is the input schema for the get_operation_status
// tool.
type GetOperationStatusInput struct {
	OperationName string `json:"operation_name" jsonschema:"operation resource name such as operations/abc123"`
}

// GetOperationStatusOutput is the output schema for the get_operation_status
// tool. OperationError reports the operation's own failure; Error reports a
// failure to fetch the status at all.
type GetOperationStatusOutput struct {
	Done           bool                `json:"done"`
	OperationError *OperationErrorInfo `json:"operation_error,omitempty"`
	Response       map[string]any      `json:"response,omitempty"`
	DocumentName   string              `json:"document_name,omitempty"`
	Error          *ToolError          `json:"error,omitempty"`
}

// ListSupportedFormatsInput is the input schema for the
// list_supported_formats tool.
type ListSupportedFormatsInput struct{}

// ListSupportedFormatsOutput is the output schema for the
// list_supported_formats tool.
type ListSupportedFormatsOutput struct {
	SupportedMIMETypes map[string][]string `json:"supported_mime_types"`
	Error              *ToolError          `json:"error,omitempty"`
}

// GetStoreStatisticsInput is the input schema for the get_store_statistics
// tool.
type GetStoreStatisticsInput struct {
	StoreName string `json:"store_name" jsonschema:"store resource name to compute statistics for"`
}

// GetStoreStatisticsOutput is the output schema for the get_store_statistics
// tool.
type GetStoreStatisticsOutput struct {
	DocumentCount   int            `json:"document_count"`
	TotalSizeBytes  int64          `json:"total_size_bytes"`
	StatesBreakdown map[string]int `json:"states_breakdown"`
	Error           *ToolError     `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_store",
		Description: "Create a file search store",
	}, s.handleCreateStore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_stores",
		Description: "List file search stores, one page at a time",
	}, s.handleListStores)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_store",
		Description: "Get details of a file search store",
	}, s.handleGetStore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_store",
		Description: "Delete a file search store; force removes contained documents",
	}, s.handleDeleteStore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_file",
		Description: "Upload file bytes into a store for indexing",
	}, s.handleUploadFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_file",
		Description: "Import an already-registered file service resource into a store",
	}, s.handleImportFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List documents in a store, one page at a time",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get details of a document",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document from its store",
	}, s.handleDeleteDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_document_metadata",
		Description: "Replace a document's custom metadata by deleting and re-uploading it; the document name may change",
	}, s.handleUpdateDocumentMetadata)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Ask a question answered from the given stores, with citations",
	}, s.handleSearchDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_operation_status",
		Description: "Poll a long-running ingestion operation",
	}, s.handleGetOperationStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_supported_formats",
		Description: "List the advisory MIME type allow-list, grouped by category",
	}, s.handleListSupportedFormats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_store_statistics",
		Description: "Compute live document statistics for a store by traversing it",
	}, s.handleGetStoreStatistics)
}

// handleCreateStore handles the create_store tool invocation.
func (s *Server) handleCreateStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateStoreInput,
) (*mcp.CallToolResult, CreateStoreOutput, error) {
	store, err := s.ports.Store.Create(ctx, input.DisplayName)
	if err != nil {
		return nil, CreateStoreOutput{Error: toolError(err)}, nil
	}

	return nil, CreateStoreOutput{
		StoreName:   store.Name,
		DisplayName: store.DisplayName,
		CreateTime:  timeString(store.CreateTime),
	}, nil
}

// handleListStores handles the list_stores tool invocation.
func (s *Server) handleListStores(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListStoresInput,
) (*mcp.CallToolResult, ListStoresOutput, error) {
	stores, next, err := s.ports.Store.ListPage(ctx, input.PageSize, input.PageToken)
	if err != nil {
		return nil, ListStoresOutput{Stores: []StoreInfo{}, Error: toolError(err)}, nil
	}

	output := ListStoresOutput{
		Stores:        make([]StoreInfo, len(stores)),
		NextPageToken: next,
	}
	for i := range stores {
		output.Stores[i] = storeInfo(stores[i])
	}
	return nil, output, nil
}

// handleGetStore handles the get_store tool invocation.
func (s *Server) handleGetStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetStoreInput,
) (*mcp.CallToolResult, GetStoreOutput, error) {
	store, err := s.ports.Store.Get(ctx, input.StoreName)
	if err != nil {
		return nil, GetStoreOutput{Error: toolError(err)}, nil
	}

	info := storeInfo(*store)
	return nil, GetStoreOutput{
		Name:                  info.Name,
		DisplayName:           info.DisplayName,
		ActiveDocumentsCount:  info.ActiveDocumentsCount,
		PendingDocumentsCount: info.PendingDocumentsCount,
		FailedDocumentsCount:  info.FailedDocumentsCount,
		TotalDocumentsCount:   info.TotalDocumentsCount,
		SizeBytes:             info.SizeBytes,
		CreateTime:            info.CreateTime,
		UpdateTime:            info.UpdateTime,
	}, nil
}

// handleDeleteStore handles the delete_store tool invocation.
func (s *Server) handleDeleteStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteStoreInput,
) (*mcp.CallToolResult, DeleteStoreOutput, error) {
	if err := s.ports.Store.Delete(ctx, input.StoreName, input.Force); err != nil {
		return nil, DeleteStoreOutput{Error: toolError(err)}, nil
	}
	return nil, DeleteStoreOutput{Deleted: true}, nil
}

// handleUploadFile handles the upload_file tool invocation.
func (s *Server) handleUploadFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadFileInput,
) (*mcp.CallToolResult, UploadFileOutput, error) {
	content, err := base64.StdEncoding.DecodeString(input.FileBytesBase64)
	if err != nil {
		err = fmt.Errorf("%w: decode file_bytes_base64: %v", domain.ErrInvalidInput, err)
		return nil, UploadFileOutput{Error: toolError(err)}, nil
	}

	result, err := s.ports.Document.Upload(ctx, domain.UploadRequest{
		StoreName:   input.StoreName,
		Content:     content,
		DisplayName: input.DisplayName,
		MIMEType:    input.MIMEType,
		Chunking:    chunkingConfig(input.ChunkingConfig),
		Metadata:    metadataEntries(input.CustomMetadata),
	})
	if err != nil {
		return nil, UploadFileOutput{Error: toolError(err)}, nil
	}

	return nil, UploadFileOutput{
		OperationName: result.OperationName,
		DocumentName:  result.DocumentName,
	}, nil
}

// handleImportFile handles the import_file tool invocation.
func (s *Server) handleImportFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportFileInput,
) (*mcp.CallToolResult, ImportFileOutput, error) {
	result, err := s.ports.Document.Import(ctx, domain.ImportRequest{
		StoreName:   input.StoreName,
		FileName:    input.FileName,
		DisplayName: input.DisplayName,
		Chunking:    chunkingConfig(input.ChunkingConfig),
		Metadata:    metadataEntries(input.CustomMetadata),
	})
	if err != nil {
		return nil, ImportFileOutput{Error: toolError(err)}, nil
	}

	return nil, ImportFileOutput{
		OperationName: result.OperationName,
		DocumentName:  result.DocumentName,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, next, err := s.ports.Document.ListPage(ctx, input.StoreName, input.PageSize, input.PageToken)
	if err != nil {
		return nil, ListDocumentsOutput{Documents: []DocumentInfo{}, Error: toolError(err)}, nil
	}

	output := ListDocumentsOutput{
		Documents:     make([]DocumentInfo, len(docs)),
		NextPageToken: next,
	}
	for i := range docs {
		output.Documents[i] = documentInfo(docs[i])
	}
	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	doc, err := s.ports.Document.Get(ctx, input.DocumentName)
	if err != nil {
		return nil, GetDocumentOutput{Error: toolError(err)}, nil
	}

	info := documentInfo(*doc)
	return nil, GetDocumentOutput{
		Name:           info.Name,
		DisplayName:    info.DisplayName,
		State:          info.State,
		SizeBytes:      info.SizeBytes,
		MIMEType:       info.MIMEType,
		CustomMetadata: info.CustomMetadata,
		CreateTime:     info.CreateTime,
		UpdateTime:     info.UpdateTime,
	}, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	if err := s.ports.Document.Delete(ctx, input.DocumentName, input.Force); err != nil {
		return nil, DeleteDocumentOutput{Error: toolError(err)}, nil
	}
	return nil, DeleteDocumentOutput{Deleted: true}, nil
}

// handleUpdateDocumentMetadata handles the update_document_metadata tool
// invocation.
func (s *Server) handleUpdateDocumentMetadata(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateDocumentMetadataInput,
) (*mcp.CallToolResult, UpdateDocumentMetadataOutput, error) {
	content, err := base64.StdEncoding.DecodeString(input.OriginalFileBytesBase64)
	if err != nil {
		err = fmt.Errorf("%w: decode original_file_bytes_base64: %v", domain.ErrInvalidInput, err)
		return nil, UpdateDocumentMetadataOutput{Error: toolError(err)}, nil
	}

	result, err := s.ports.Document.UpdateMetadata(ctx, domain.UpdateMetadataRequest{
		DocumentName: input.DocumentName,
		Metadata:     metadataEntries(input.NewCustomMetadata),
		Content:      content,
		DisplayName:  input.DisplayName,
		MIMEType:     input.MIMEType,
		Chunking:     chunkingConfig(input.ChunkingConfig),
	})
	if err != nil {
		return nil, UpdateDocumentMetadataOutput{Error: toolError(err)}, nil
	}

	return nil, UpdateDocumentMetadataOutput{
		OperationName:   result.OperationName,
		NewDocumentName: result.NewDocumentName,
		JournalID:       result.JournalID,
	}, nil
}

// handleSearchDocuments handles the search_documents tool invocation.
func (s *Server) handleSearchDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	result, err := s.ports.Search.Search(ctx, domain.SearchQuery{
		Query:           input.Query,
		StoreNames:      input.StoreNames,
		Model:           input.Model,
		MetadataFilter:  input.MetadataFilter,
		MaxOutputTokens: input.MaxOutputTokens,
		Temperature:     input.Temperature,
	})
	if err != nil {
		return nil, SearchDocumentsOutput{Citations: []CitationInfo{}, Error: toolError(err)}, nil
	}

	// An answer with no citations is a valid zero-evidence result; the
	// citations list stays present (and empty) rather than disappearing.
	output := SearchDocumentsOutput{
		AnswerText:        result.Answer,
		Citations:         make([]CitationInfo, len(result.Citations)),
		GroundingMetadata: normalise.Map(result.Grounding),
		UsedStores:        result.Stores,
		Model:             result.Model,
	}
	for i, c := range result.Citations {
		output.Citations[i] = CitationInfo{
			Source:   c.Source,
			Snippet:  c.Snippet,
			Metadata: normalise.Map(c.Metadata),
		}
	}
	return nil, output, nil
}

// handleGetOperationStatus handles the get_operation_status tool invocation.
func (s *Server) handleGetOperationStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetOperationStatusInput,
) (*mcp.CallToolResult, GetOperationStatusOutput, error) {
	op, err := s.ports.Operation.Get(ctx, input.OperationName)
	if err != nil {
		return nil, GetOperationStatusOutput{Error: toolError(err)}, nil
	}

	output := GetOperationStatusOutput{
		Done:         op.Done,
		Response:     normalise.Map(op.Response),
		DocumentName: op.DocumentName(),
	}
	if op.Error != nil {
		output.OperationError = &OperationErrorInfo{
			Code:    op.Error.Code,
			Message: op.Error.Message,
			Details: normaliseDetails(op.Error.Details),
		}
	}
	return nil, output, nil
}

// handleListSupportedFormats handles the list_supported_formats tool
// invocation.
func (s *Server) handleListSupportedFormats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSupportedFormatsInput,
) (*mcp.CallToolResult, ListSupportedFormatsOutput, error) {
	return nil, ListSupportedFormatsOutput{
		SupportedMIMETypes: domain.SupportedMIMETypes,
	}, nil
}

// handleGetStoreStatistics handles the get_store_statistics tool invocation.
func (s *Server) handleGetStoreStatistics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetStoreStatisticsInput,
) (*mcp.CallToolResult, GetStoreStatisticsOutput, error) {
	stats, err := s.ports.Store.Statistics(ctx, input.StoreName)
	if err != nil {
		return nil, GetStoreStatisticsOutput{Error: toolError(err)}, nil
	}

	breakdown := make(map[string]int, len(stats.StatesBreakdown))
	for state, count := range stats.StatesBreakdown {
		breakdown[string(state)] = count
	}
	return nil, GetStoreStatisticsOutput{
		DocumentCount:   stats.DocumentCount,
		TotalSizeBytes:  stats.TotalSizeBytes,
		StatesBreakdown: breakdown,
	}, nil
}

// storeInfo projects a store onto its wire shape.
func storeInfo(store domain.Store) StoreInfo {
	return StoreInfo{
		Name:                  store.Name,
		DisplayName:           store.DisplayName,
		ActiveDocumentsCount:  store.ActiveDocumentsCount,
		PendingDocumentsCount: store.PendingDocumentsCount,
		FailedDocumentsCount:  store.FailedDocumentsCount,
		TotalDocumentsCount:   store.TotalDocumentsCount,
		SizeBytes:             store.SizeBytes,
		CreateTime:            timeString(store.CreateTime),
		UpdateTime:            timeString(store.UpdateTime),
	}
}

// documentInfo projects a document onto its wire shape.
func documentInfo(doc domain.Document) DocumentInfo {
	info := DocumentInfo{
		Name:        doc.Name,
		DisplayName: doc.DisplayName,
		State:       string(doc.State),
		SizeBytes:   doc.SizeBytes,
		MIMEType:    doc.MIMEType,
		CreateTime:  timeString(doc.CreateTime),
		UpdateTime:  timeString(doc.UpdateTime),
	}
	if len(doc.CustomMetadata) > 0 {
		info.CustomMetadata = make([]MetadataEntryInput, len(doc.CustomMetadata))
		for i, e := range doc.CustomMetadata {
			info.CustomMetadata[i] = MetadataEntryInput{
				Key:             e.Key,
				StringValue:     e.StringValue,
				NumericValue:    e.NumericValue,
				StringListValue: e.StringListValue,
			}
		}
	}
	return info
}

// metadataEntries converts wire metadata entries into domain entries.
// Validation happens in the domain layer, not here.
func metadataEntries(entries []MetadataEntryInput) []domain.MetadataEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]domain.MetadataEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.MetadataEntry{
			Key:             e.Key,
			StringValue:     e.StringValue,
			NumericValue:    e.NumericValue,
			StringListValue: e.StringListValue,
		}
	}
	return out
}

// chunkingConfig converts an optional wire chunking config.
func chunkingConfig(c *ChunkingConfigInput) domain.ChunkingConfig {
	if c == nil {
		return domain.ChunkingConfig{}
	}
	return domain.ChunkingConfig{
		MaxTokensPerChunk: c.MaxTokensPerChunk,
		MaxOverlapTokens:  c.MaxOverlapTokens,
	}
}

// normaliseDetails makes operation error details JSON-safe.
func normaliseDetails(details []any) []any {
	if len(details) == 0 {
		return nil
	}
	out, _ := normalise.Value(details).([]any)
	return out
}

// timeString renders a timestamp for the wire, empty for the zero time.
func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
