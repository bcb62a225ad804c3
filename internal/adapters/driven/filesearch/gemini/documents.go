package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// uploadPathPrefix is the media-upload counterpart of the versioned API
// path. Uploads go through it instead of the plain resource path.
const uploadPathPrefix = "/upload/" + apiVersion + "/"

// uploadMetadata is the JSON half of a multipart upload request.
type uploadMetadata struct {
	DisplayName    string                 `json:"displayName,omitempty"`
	MimeType       string                 `json:"mimeType,omitempty"`
	CustomMetadata []metadataPayload      `json:"customMetadata,omitempty"`
	ChunkingConfig *chunkingConfigPayload `json:"chunkingConfig,omitempty"`
}

// Upload ingests raw bytes into a store via the media-upload endpoint. The
// request is multipart/related: a JSON metadata part followed by the file
// content. The response is the long-running operation tracking chunking and
// indexing.
func (c *Client) Upload(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
	if err := req.Validate(0); err != nil {
		return nil, err
	}

	meta := uploadMetadata{
		DisplayName:    req.DisplayName,
		MimeType:       req.MIMEType,
		CustomMetadata: metadataToWire(req.Metadata),
		ChunkingConfig: chunkingToWire(req.Chunking),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal upload metadata: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, fmt.Errorf("write metadata part: %w", err)
	}

	contentType := req.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filePart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {contentType},
	})
	if err != nil {
		return nil, fmt.Errorf("create content part: %w", err)
	}
	if _, err := filePart.Write(req.Content); err != nil {
		return nil, fmt.Errorf("write content part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	query := url.Values{"uploadType": {"multipart"}}
	rawURL := c.baseURL + uploadPathPrefix + req.StoreName + ":uploadToFileSearchStore?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	var op operationPayload
	if err := c.send(httpReq, c.upload, &op); err != nil {
		return nil, err
	}

	operation := op.toDomain()
	c.log.Info().
		Str("store", req.StoreName).
		Str("operation", operation.Name).
		Int("size_bytes", len(req.Content)).
		Msg("upload accepted")

	return &domain.IngestResult{
		OperationName: operation.Name,
		DocumentName:  operation.DocumentName(),
	}, nil
}

// importRequest is the JSON body of an importFile call.
type importRequest struct {
	FileName       string                 `json:"fileName"`
	CustomMetadata []metadataPayload      `json:"customMetadata,omitempty"`
	ChunkingConfig *chunkingConfigPayload `json:"chunkingConfig,omitempty"`
}

// Import ingests a file already registered with the backend's file service
// into a store. Like Upload it returns a long-running operation.
func (c *Client) Import(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := importRequest{
		FileName:       req.FileName,
		CustomMetadata: metadataToWire(req.Metadata),
		ChunkingConfig: chunkingToWire(req.Chunking),
	}

	var op operationPayload
	rawURL := c.endpoint(req.StoreName+":importFile", nil)
	if err := c.doJSON(ctx, c.http, http.MethodPost, rawURL, body, &op); err != nil {
		return nil, err
	}

	operation := op.toDomain()
	c.log.Info().
		Str("store", req.StoreName).
		Str("file", req.FileName).
		Str("operation", operation.Name).
		Msg("import accepted")

	return &domain.IngestResult{
		OperationName: operation.Name,
		DocumentName:  operation.DocumentName(),
	}, nil
}

// ListDocuments fetches one page of a store's documents.
func (c *Client) ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error) {
	if err := domain.ValidateStoreName(storeName); err != nil {
		return nil, "", err
	}

	query := url.Values{}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var resp listDocumentsResponse
	rawURL := c.endpoint(storeName+"/documents", query)
	if err := c.doJSON(ctx, c.http, http.MethodGet, rawURL, nil, &resp); err != nil {
		return nil, "", err
	}

	docs := make([]domain.Document, 0, len(resp.Documents))
	for _, payload := range resp.Documents {
		docs = append(docs, payload.toDomain())
	}
	return docs, resp.NextPageToken, nil
}

// GetDocument fetches one document by resource name.
func (c *Client) GetDocument(ctx context.Context, name string) (*domain.Document, error) {
	if err := domain.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	var payload documentPayload
	if err := c.doJSON(ctx, c.http, http.MethodGet, c.endpoint(name, nil), nil, &payload); err != nil {
		return nil, err
	}

	doc := payload.toDomain()
	return &doc, nil
}

// DeleteDocument removes a document from its store.
func (c *Client) DeleteDocument(ctx context.Context, name string, force bool) error {
	if err := domain.ValidateDocumentName(name); err != nil {
		return err
	}

	query := url.Values{}
	if force {
		query.Set("force", "true")
	}

	if err := c.doJSON(ctx, c.http, http.MethodDelete, c.endpoint(name, query), nil, nil); err != nil {
		return err
	}

	c.log.Info().Str("document", name).Msg("document deleted")
	return nil
}
