package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/corpus-cli/internal/backoff"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

var errNotStubbed = errors.New("mock: method not stubbed")

// mockBackend implements driven.FileSearchService with per-method hooks.
// Methods without a hook fail, so a test only exercises the calls it stubs.
type mockBackend struct {
	createStoreFn  func(ctx context.Context, displayName string) (*domain.Store, error)
	getStoreFn     func(ctx context.Context, name string) (*domain.Store, error)
	listStoresFn   func(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error)
	deleteStoreFn  func(ctx context.Context, name string, force bool) error
	uploadFn       func(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error)
	importFn       func(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error)
	listDocsFn     func(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error)
	getDocumentFn  func(ctx context.Context, name string) (*domain.Document, error)
	deleteDocFn    func(ctx context.Context, name string, force bool) error
	getOperationFn func(ctx context.Context, name string) (*domain.Operation, error)
	searchFn       func(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error)
	pingFn         func(ctx context.Context) error
}

var _ driven.FileSearchService = (*mockBackend)(nil)

func (m *mockBackend) CreateStore(ctx context.Context, displayName string) (*domain.Store, error) {
	if m.createStoreFn == nil {
		return nil, errNotStubbed
	}
	return m.createStoreFn(ctx, displayName)
}

func (m *mockBackend) GetStore(ctx context.Context, name string) (*domain.Store, error) {
	if m.getStoreFn == nil {
		return nil, errNotStubbed
	}
	return m.getStoreFn(ctx, name)
}

func (m *mockBackend) ListStores(ctx context.Context, pageSize int, pageToken string) ([]domain.Store, string, error) {
	if m.listStoresFn == nil {
		return nil, "", errNotStubbed
	}
	return m.listStoresFn(ctx, pageSize, pageToken)
}

func (m *mockBackend) DeleteStore(ctx context.Context, name string, force bool) error {
	if m.deleteStoreFn == nil {
		return errNotStubbed
	}
	return m.deleteStoreFn(ctx, name, force)
}

func (m *mockBackend) Upload(ctx context.Context, req domain.UploadRequest) (*domain.IngestResult, error) {
	if m.uploadFn == nil {
		return nil, errNotStubbed
	}
	return m.uploadFn(ctx, req)
}

func (m *mockBackend) Import(ctx context.Context, req domain.ImportRequest) (*domain.IngestResult, error) {
	if m.importFn == nil {
		return nil, errNotStubbed
	}
	return m.importFn(ctx, req)
}

func (m *mockBackend) ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) ([]domain.Document, string, error) {
	if m.listDocsFn == nil {
		return nil, "", errNotStubbed
	}
	return m.listDocsFn(ctx, storeName, pageSize, pageToken)
}

func (m *mockBackend) GetDocument(ctx context.Context, name string) (*domain.Document, error) {
	if m.getDocumentFn == nil {
		return nil, errNotStubbed
	}
	return m.getDocumentFn(ctx, name)
}

func (m *mockBackend) DeleteDocument(ctx context.Context, name string, force bool) error {
	if m.deleteDocFn == nil {
		return errNotStubbed
	}
	return m.deleteDocFn(ctx, name, force)
}

func (m *mockBackend) GetOperation(ctx context.Context, name string) (*domain.Operation, error) {
	if m.getOperationFn == nil {
		return nil, errNotStubbed
	}
	return m.getOperationFn(ctx, name)
}

func (m *mockBackend) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	if m.searchFn == nil {
		return nil, errNotStubbed
	}
	return m.searchFn(ctx, query)
}

func (m *mockBackend) Ping(ctx context.Context) error {
	if m.pingFn == nil {
		return errNotStubbed
	}
	return m.pingFn(ctx)
}

// mockJournal implements driven.UpdateJournal with in-memory state and
// optional failure injection.
type mockJournal struct {
	mu      sync.Mutex
	seq     int
	entries map[string]*domain.JournalEntry

	appendErr error
	markErr   error
}

var _ driven.UpdateJournal = (*mockJournal)(nil)

func newMockJournal() *mockJournal {
	return &mockJournal{entries: make(map[string]*domain.JournalEntry)}
}

func (m *mockJournal) Append(_ context.Context, entry domain.JournalEntry) (string, error) {
	if m.appendErr != nil {
		return "", m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	entry.ID = fmt.Sprintf("journal-%d", m.seq)
	m.entries[entry.ID] = &entry
	return entry.ID, nil
}

func (m *mockJournal) Get(_ context.Context, id string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", id, domain.ErrNotFound)
	}
	copied := *entry
	return &copied, nil
}

func (m *mockJournal) ListPending(_ context.Context) ([]domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JournalEntry
	for i := 1; i <= m.seq; i++ {
		id := fmt.Sprintf("journal-%d", i)
		if entry, ok := m.entries[id]; ok && entry.Status != domain.JournalStatusCompleted {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (m *mockJournal) MarkCompleted(_ context.Context, id string) error {
	return m.mark(id, domain.JournalStatusCompleted, "")
}

func (m *mockJournal) MarkFailed(_ context.Context, id string, cause string) error {
	return m.mark(id, domain.JournalStatusFailed, cause)
}

func (m *mockJournal) mark(id string, status domain.JournalStatus, cause string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("journal entry %s: %w", id, domain.ErrNotFound)
	}
	entry.Status = status
	entry.LastError = cause
	return nil
}

func (m *mockJournal) Prune(_ context.Context, _ int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, entry := range m.entries {
		if entry.Status == domain.JournalStatusCompleted {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *mockJournal) Close() error { return nil }

func (m *mockJournal) status(id string) domain.JournalStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[id]; ok {
		return entry.Status
	}
	return ""
}

// mockRepoSource implements driven.RepositorySource from canned data.
type mockRepoSource struct {
	defaultBranch string
	tree          []driven.RepoFile
	blobs         map[string][]byte

	treeErr  error
	fetchErr map[string]error
}

var _ driven.RepositorySource = (*mockRepoSource)(nil)

func (m *mockRepoSource) DefaultBranch(_ context.Context, _, _ string) (string, error) {
	if m.defaultBranch == "" {
		return "", errNotStubbed
	}
	return m.defaultBranch, nil
}

func (m *mockRepoSource) ListTree(_ context.Context, _, _, _ string) ([]driven.RepoFile, error) {
	if m.treeErr != nil {
		return nil, m.treeErr
	}
	return m.tree, nil
}

func (m *mockRepoSource) FetchBlob(_ context.Context, _, _, sha string) ([]byte, error) {
	if err, ok := m.fetchErr[sha]; ok {
		return nil, err
	}
	content, ok := m.blobs[sha]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", sha, domain.ErrNotFound)
	}
	return content, nil
}

// fastRetry keeps retried tests quick.
func fastRetry() backoff.Policy {
	return backoff.Policy{MaxAttempts: 3, BaseWait: time.Microsecond, MaxWait: time.Microsecond}
}
