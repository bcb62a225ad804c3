package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Source implements the repository source port on top of the GitHub API.
type Source struct {
	client *Client
	log    zerolog.Logger
}

var _ driven.RepositorySource = (*Source)(nil)

// NewSource creates a repository source backed by client.
func NewSource(client *Client) *Source {
	return &Source{
		client: client,
		log:    logger.For("github"),
	}
}

// DefaultBranch returns the repository's default branch name.
func (s *Source) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	if err := s.client.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := s.client.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", wrapError(err, "get repo")
	}
	s.client.updateRateLimit(resp)

	return repository.GetDefaultBranch(), nil
}

// ListTree returns every blob reachable from ref, recursively. Tree and
// submodule entries are skipped.
func (s *Source) ListTree(ctx context.Context, owner, repo, ref string) ([]driven.RepoFile, error) {
	if err := s.client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := s.client.gh.Git.GetTree(ctx, owner, repo, ref, true) // recursive=true
	if err != nil {
		return nil, wrapError(err, "get tree")
	}
	s.client.updateRateLimit(resp)

	if tree.GetTruncated() {
		s.log.Warn().
			Str("owner", owner).
			Str("repo", repo).
			Str("ref", ref).
			Msg("tree listing truncated by the API; some files will be missed")
	}

	files := make([]driven.RepoFile, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		files = append(files, driven.RepoFile{
			Path: entry.GetPath(),
			SHA:  entry.GetSHA(),
			Size: int64(entry.GetSize()),
		})
	}
	return files, nil
}

// FetchBlob returns a blob's raw bytes.
func (s *Source) FetchBlob(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	if err := s.client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	blob, resp, err := s.client.gh.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, wrapError(err, "get blob")
	}
	s.client.updateRateLimit(resp)

	return decodeBlob(blob)
}

// decodeBlob extracts raw bytes from a blob response. The API base64-encodes
// content with embedded newlines.
func decodeBlob(blob *gh.Blob) ([]byte, error) {
	content := blob.GetContent()
	switch blob.GetEncoding() {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode blob content: %w", err)
		}
		return data, nil
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("%w: unsupported blob encoding %q", domain.ErrInvalidInput, blob.GetEncoding())
	}
}
