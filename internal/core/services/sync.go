package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncService = (*SyncService)(nil)

// sourcePathKey is the metadata key recording where an ingested file came
// from inside its repository.
const sourcePathKey = "source_path"

// SyncService bulk-ingests repository content into a store.
type SyncService struct {
	source    driven.RepositorySource
	documents driving.DocumentService
	upload    domain.UploadSettings
	log       zerolog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(
	source driven.RepositorySource,
	documents driving.DocumentService,
	upload domain.UploadSettings,
) *SyncService {
	return &SyncService{
		source:    source,
		documents: documents,
		upload:    upload,
		log:       logger.For("sync-service"),
	}
}

// SyncRepository uploads every eligible file from a repository into the
// target store. Files with unsupported extensions or over the size limit are
// skipped; fetch and upload errors are collected per file and never abort
// the run.
func (s *SyncService) SyncRepository(ctx context.Context, req driving.SyncRequest) (*driving.SyncReport, error) {
	if req.Owner == "" || req.Repo == "" {
		return nil, fmt.Errorf("%w: owner and repo are required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateStoreName(req.StoreName); err != nil {
		return nil, err
	}
	if err := domain.ValidateMetadata(req.Metadata); err != nil {
		return nil, err
	}
	// One slot is reserved for the source path entry.
	if len(req.Metadata)+1 > domain.MaxMetadataEntries {
		return nil, fmt.Errorf("%w: %d metadata entries leave no room for %s",
			domain.ErrInvalidInput, len(req.Metadata), sourcePathKey)
	}

	ref := req.Ref
	if ref == "" {
		branch, err := s.source.DefaultBranch(ctx, req.Owner, req.Repo)
		if err != nil {
			return nil, fmt.Errorf("resolve default branch of %s/%s: %w", req.Owner, req.Repo, err)
		}
		ref = branch
	}

	files, err := s.source.ListTree(ctx, req.Owner, req.Repo, ref)
	if err != nil {
		return nil, fmt.Errorf("list tree of %s/%s@%s: %w", req.Owner, req.Repo, ref, err)
	}

	report := &driving.SyncReport{StoreName: req.StoreName, Ref: ref}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.eligible(file, req.PathPrefix) {
			report.Skipped++
			continue
		}
		if req.DryRun {
			report.Uploaded++
			continue
		}

		if err := s.ingestFile(ctx, req, ref, file, report); err != nil {
			report.Failures = append(report.Failures, driving.SyncFailure{Path: file.Path, Err: err.Error()})
			s.log.Warn().Err(err).Str("path", file.Path).Msg("file skipped after error")
		}
	}

	s.log.Info().
		Str("repo", req.Owner+"/"+req.Repo).
		Str("ref", ref).
		Str("store", req.StoreName).
		Int("uploaded", report.Uploaded).
		Int("skipped", report.Skipped).
		Int("failed", len(report.Failures)).
		Bool("dry_run", req.DryRun).
		Msg("repository sync finished")
	return report, nil
}

// eligible filters the tree down to files worth sending to the backend.
func (s *SyncService) eligible(file driven.RepoFile, prefix string) bool {
	if prefix != "" && !strings.HasPrefix(file.Path, prefix) {
		return false
	}
	if s.upload.MaxFileSizeBytes > 0 && file.Size > s.upload.MaxFileSizeBytes {
		return false
	}
	return domain.IsSupportedExtension(strings.ToLower(path.Ext(file.Path)))
}

func (s *SyncService) ingestFile(ctx context.Context, req driving.SyncRequest, ref string, file driven.RepoFile, report *driving.SyncReport) error {
	content, err := s.source.FetchBlob(ctx, req.Owner, req.Repo, file.SHA)
	if err != nil {
		return fmt.Errorf("fetch blob: %w", err)
	}

	metadata := append([]domain.MetadataEntry{domain.StringMetadata(sourcePathKey, file.Path)}, req.Metadata...)
	result, err := s.documents.Upload(ctx, domain.UploadRequest{
		StoreName:   req.StoreName,
		Content:     content,
		DisplayName: path.Base(file.Path),
		Metadata:    metadata,
	})
	if err != nil {
		return err
	}

	report.Uploaded++
	report.Operations = append(report.Operations, result.OperationName)
	s.log.Debug().Str("path", file.Path).Str("operation", result.OperationName).Msg("file uploaded")
	return nil
}
