package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/core/services"
)

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	store     *domain.Store
	stores    []domain.Store
	nextToken string
	stats     *domain.StoreStatistics
	err       error

	lastName  string
	lastForce bool
}

func (m *mockStoreService) Create(_ context.Context, _ string) (*domain.Store, error) {
	return m.store, m.err
}

func (m *mockStoreService) Get(_ context.Context, name string) (*domain.Store, error) {
	m.lastName = name
	return m.store, m.err
}

func (m *mockStoreService) List(_ context.Context) ([]domain.Store, error) {
	return m.stores, m.err
}

func (m *mockStoreService) ListPage(_ context.Context, _ int, _ string) ([]domain.Store, string, error) {
	return m.stores, m.nextToken, m.err
}

func (m *mockStoreService) Delete(_ context.Context, name string, force bool) error {
	m.lastName = name
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
	lastUpdate domain.UpdateMetadataRequest
}

func (m *mockDocumentService) Upload(_ context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
	m.lastUpload = req
	return m.ingest, m.err
}

func (m *mockDocumentService) Import(_ context.Context, _ domain.ImportRequest) (*domain.IngestResult, error) {
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

func (m *mockDocumentService) Delete(_ context.Context, _ string, _ bool) error {
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

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	report *driving.SyncReport
	err    error

	lastRequest driving.SyncRequest
}

func (m *mockSyncService) SyncRepository(_ context.Context, req driving.SyncRequest) (*driving.SyncReport, error) {
	m.lastRequest = req
	return m.report, m.err
}

func testStore() *domain.Store {
	return &domain.Store{
		Name:                 "fileSearchStores/test-store",
		DisplayName:          "Test Store",
		ActiveDocumentsCount: 2,
		TotalDocumentsCount:  2,
		SizeBytes:            2048,
		CreateTime:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testDocument() *domain.Document {
	return &domain.Document{
		Name:        "fileSearchStores/test-store/documents/doc-1",
		DisplayName: "guide.md",
		State:       domain.DocumentStateActive,
		SizeBytes:   1024,
		MIMEType:    "text/markdown",
		CreateTime:  time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
	}
}

// setupTestServices replaces the package-level services with mocks carrying
// canned data and returns a cleanup that restores the previous wiring.
// Tests needing specific behaviour reassign the service after calling it.
func setupTestServices() func() {
	oldSettings := settingsService
	oldStore := storeService
	oldDocument := documentService
	oldSearch := searchService
	oldOperation := operationService
	oldSync := syncService
	oldReady := servicesReady

	settingsService = services.NewSettingsService(memory.NewSettingsStore(nil), nil)
	storeService = &mockStoreService{
		store:  testStore(),
		stores: []domain.Store{*testStore()},
		stats: &domain.StoreStatistics{
			StoreName:      "fileSearchStores/test-store",
			DocumentCount:  2,
			TotalSizeBytes: 2048,
			StatesBreakdown: map[domain.DocumentState]int{
				domain.DocumentStateActive: 2,
			},
		},
	}
	documentService = &mockDocumentService{
		document:  testDocument(),
		documents: []domain.Document{*testDocument()},
		ingest: &domain.IngestResult{
			OperationName: "operations/op-upload-1",
			DocumentName:  "fileSearchStores/test-store/documents/doc-1",
		},
		update: &domain.UpdateResult{
			OperationName:   "operations/op-update-1",
			NewDocumentName: "fileSearchStores/test-store/documents/doc-2",
		},
	}
	searchService = &mockSearchService{
		result: &domain.SearchResult{
			Answer: "Grounded answer text.",
			Citations: []domain.Citation{
				{Source: "guide.md", Snippet: "relevant passage"},
			},
			Stores: []string{"fileSearchStores/test-store"},
			Model:  "gemini-2.5-flash",
		},
	}
	operationService = &mockOperationService{
		operation: &domain.Operation{
			Name: "operations/op-upload-1",
			Done: true,
		},
	}
	syncService = &mockSyncService{
		report: &driving.SyncReport{
			StoreName:  "fileSearchStores/test-store",
			Ref:        "main",
			Uploaded:   3,
			Skipped:    1,
			Operations: []string{"operations/op-sync-1"},
		},
	}
	servicesReady = true

	return func() {
		settingsService = oldSettings
		storeService = oldStore
		documentService = oldDocument
		searchService = oldSearch
		operationService = oldOperation
		syncService = oldSync
		servicesReady = oldReady
	}
}
