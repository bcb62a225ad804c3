package driving

import (
	"context"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// SyncService bulk-ingests repository content into a store.
type SyncService interface {
	// SyncRepository uploads every eligible file from a repository into the
	// target store. Per-file failures are collected, not fatal.
	SyncRepository(ctx context.Context, req SyncRequest) (*SyncReport, error)
}

// SyncRequest describes one repository ingestion run.
type SyncRequest struct {
	// Owner is the repository owner.
	Owner string

	// Repo is the repository name.
	Repo string

	// Ref is the branch, tag, or commit to read. Empty means the default
	// branch.
	Ref string

	// StoreName is the target store resource name.
	StoreName string

	// PathPrefix restricts ingestion to files under this path. Empty means
	// the whole tree.
	PathPrefix string

	// Metadata is attached to every uploaded document, after the source
	// path entry.
	Metadata []domain.MetadataEntry

	// DryRun lists what would be uploaded without uploading.
	DryRun bool
}

// SyncFailure records one file that could not be ingested.
type SyncFailure struct {
	// Path is the repository path of the file.
	Path string

	// Err is why it failed.
	Err string
}

// SyncReport summarises one repository ingestion run.
type SyncReport struct {
	// StoreName is the store the run targeted.
	StoreName string

	// Ref is the resolved branch, tag, or commit.
	Ref string

	// Uploaded counts files accepted by the backend.
	Uploaded int

	// Skipped counts files passed over (unsupported extension, oversize).
	Skipped int

	// Operations are the operation names of accepted uploads.
	Operations []string

	// Failures are the files that errored, in tree order.
	Failures []SyncFailure
}
