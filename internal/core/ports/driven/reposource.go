package driven

import "context"

// RepoFile is one file in a repository tree listing.
type RepoFile struct {
	// Path is the file's path within the repository.
	Path string

	// SHA identifies the blob.
	SHA string

	// Size is the blob size in bytes.
	Size int64
}

// RepositorySource reads files out of a hosted code repository for bulk
// ingestion. Backed by the GitHub API.
type RepositorySource interface {
	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)

	// ListTree returns every file reachable from ref, recursively.
	ListTree(ctx context.Context, owner, repo, ref string) ([]RepoFile, error)

	// FetchBlob returns a blob's raw bytes.
	FetchBlob(ctx context.Context, owner, repo, sha string) ([]byte, error)
}
