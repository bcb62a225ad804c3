package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	store     *domain.Store
	stores    []domain.Store
	nextToken string
	stats     *domain.StoreStatistics
	err       error

	lastPageSize  int
	lastPageToken string
	lastForce     bool
}

func (m *mockStoreService) Create(_ context.Context, _ string) (*domain.Store, error) {
	return m.store, m.err
}

func (m *mockStoreService) Get(_ context.Context, _ string) (*domain.Store, error) {
	return m.store, m.err
}

func (m *mockStoreService) List(_ context.Context) ([]domain.Store, error) {
	return m.stores, m.err
}

func (m *mockStoreService) ListPage(_ context.Context, pageSize int, pageToken string) ([]domain.Store, string, error) {
	m.lastPageSize = pageSize
	m.lastPageToken = pageToken
	return m.stores, m.nextToken, m.err
}

func (m *mockStoreService) Delete(_ context.Context, _ string, force bool) error {
	m.lastForce = force
	return m.err
}

func (m *mockStoreService) Statistics(_ context.Context, _ string) (*domain.StoreStatistics, error) {
	return m.stats, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document  *domain.Document
	documents []domain.Document
	nextToken string
	ingest    *domain.IngestResult
	update    *domain.UpdateResult
	pending   []domain.JournalEntry
	err       error

	lastUpload domain.UploadRequest
	lastImport domain.ImportRequest
	lastUpdate domain.UpdateMetadataRequest
	lastForce  bool
}

func (m *mockDocumentService) Upload(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
	m.lastUpload = req
	return m.ingest, m.err
}

func (m *mockDocumentService) Import(_ context.Context, req domain.ImportRequest) (*domain.IngestResult, error) {
	m.lastImport = req
	return m.ingest, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) ListPage(_ context.Context, _ string, _ int, _ string) ([]domain.Document, string, error) {
	return m.documents, m.nextToken, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string, force bool) error {
	m.lastForce = force
	return m.err
}

func (m *mockDocumentService) UpdateMetadata(_ context.Context, req domain.UpdateMetadataRequest) (*domain.UpdateResult, error) {
	m.lastUpdate = req
	return m.update, m.err
}

func (m *mockDocumentService) RecoverUpdate(_ context.Context, _ string) (*domain.UpdateResult, error) {
	return m.update, m.err
}

func (m *mockDocumentService) PendingRecoveries(_ context.Context) ([]domain.JournalEntry, error) {
	return m.pending, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result *domain.SearchResult
	err    error

	lastQuery domain.SearchQuery
}

func (m *mockSearchService) Search(_ context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	m.lastQuery = query
	return m.result, m.err
}

// mockOperationService is a mock implementation of driving.OperationService.
type mockOperationService struct {
	operation *domain.Operation
	err       error
}

func (m *mockOperationService) Get(_ context.Context, _ string) (*domain.Operation, error) {
	return m.operation, m.err
}

func (m *mockOperationService) Wait(_ context.Context, _ string, _ time.Duration) (*domain.Operation, error) {
	return m.operation, m.err
}

// validPorts returns a Ports with every service mocked, for tests that only
// care about a subset.
func validPorts() *Ports {
	return &Ports{
		Store:     &mockStoreService{},
		Document:  &mockDocumentService{},
		Search:    &mockSearchService{},
		Operation: &mockOperationService{},
	}
}
