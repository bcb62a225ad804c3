package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// uriScheme is the custom URI scheme for Corpus resources.
const uriScheme = "corpus://"

// registerResources registers all resource handlers with the MCP server.
// Unlike tools, resources follow the protocol's own error convention: a
// failed read is a protocol error, not a structured payload.
func (s *Server) registerResources() {
	// Static resource for the advisory format allow-list.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "supported-formats",
		Description: "Supported MIME types for document ingestion, grouped by category",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	// Static resource for listing stores.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stores",
		Name:        "stores",
		Description: "All file search stores visible to the configured credentials",
		MIMEType:    "application/json",
	}, s.handleStoresResource)

	// Template for a store's documents.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "stores/{storeId}/documents",
		Name:        "store-documents",
		Description: "Documents held in a specific file search store",
		MIMEType:    "application/json",
	}, s.handleStoreDocumentsResource)
}

// handleFormatsResource returns the advisory MIME type allow-list.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(domain.SupportedMIMETypes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling formats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleStoresResource returns every store, aggregated across pages.
func (s *Server) handleStoresResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stores, err := s.ports.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}

	infos := make([]StoreInfo, len(stores))
	for i := range stores {
		infos[i] = storeInfo(stores[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stores: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleStoreDocumentsResource returns the documents of one store.
func (s *Server) handleStoreDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract storeId from URI: corpus://stores/{storeId}/documents
	storeID := extractStoreID(req.Params.URI)
	if storeID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Document.List(ctx, domain.StoreCollection+"/"+storeID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentInfo, len(docs))
	for i := range docs {
		infos[i] = documentInfo(docs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractStoreID extracts the store ID from a URI like
// corpus://stores/{storeId}/documents.
func extractStoreID(uri string) string {
	const prefix = uriScheme + "stores/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
