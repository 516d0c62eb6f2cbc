package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edushelf/edushelf-catalog/entity"
	"github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/infra/produce"
	"github.com/edushelf/edushelf-catalog/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceStore is the capability contract the catalog needs from the
// metadata store. Satisfied by repository.ResourceRepository.
type ResourceStore interface {
	List(ctx context.Context, filter repository.Filter) ([]entity.Resource, error)
	Recent(ctx context.Context, limit int) ([]entity.Resource, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error)
	Create(ctx context.Context, resource *entity.Resource) error
	Save(ctx context.Context, resource *entity.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) (*entity.Resource, error)
	Stats(ctx context.Context) (*repository.LibraryStats, error)
}

// OrphanReporter receives blobs that were uploaded but never referenced by a
// metadata row. Satisfied by produce.CleanupService.
type OrphanReporter interface {
	PublishOrphanedBlob(ctx context.Context, msg produce.OrphanedBlobMessage) error
}

// ResourceDraft carries the caller-supplied metadata fields of a resource.
type ResourceDraft struct {
	Title       string
	Description string
	Subject     string
	Level       string
	Category    string
}

// CatalogService mediates all reads and writes against the resource
// collection. It holds no cached state; the store and blob store are the
// sole sources of truth. Authorization is the caller's concern.
type CatalogService struct {
	store    ResourceStore
	ingestor *Ingestor
	orphans  OrphanReporter
	logger   *infra.LoggerClient
	bucket   string
}

func NewCatalogService(store ResourceStore, ingestor *Ingestor, orphans OrphanReporter, logger *infra.LoggerClient, bucket string) *CatalogService {
	return &CatalogService{
		store:    store,
		ingestor: ingestor,
		orphans:  orphans,
		logger:   logger,
		bucket:   bucket,
	}
}

// List returns all resources matching the filter, newest first.
func (s *CatalogService) List(ctx context.Context, filter repository.Filter) ([]entity.Resource, error) {
	resources, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w: %w", ErrBackendUnavailable, err)
	}
	return resources, nil
}

// Recent returns the newest resources, bounded by limit.
func (s *CatalogService) Recent(ctx context.Context, limit int) ([]entity.Resource, error) {
	if limit <= 0 {
		limit = 6
	}
	resources, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent resources: %w: %w", ErrBackendUnavailable, err)
	}
	return resources, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	resource, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get resource %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	return resource, nil
}

// Create uploads the payload first and only then inserts the metadata row,
// so a persisted file_url always points at an existing blob. If the insert
// fails after a successful upload the blob is orphaned: the create still
// fails, and the orphan is reported for out-of-band cleanup.
func (s *CatalogService) Create(ctx context.Context, draft ResourceDraft, payload *FilePayload) (*entity.Resource, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("create resource: %w: title is required", ErrValidationFailed)
	}
	if payload == nil {
		return nil, fmt.Errorf("create resource: %w: a file is required", ErrValidationFailed)
	}

	ingested, err := s.ingestor.Ingest(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	resource := &entity.Resource{
		Title:       draft.Title,
		Description: draft.Description,
		Subject:     draft.Subject,
		Level:       draft.Level,
		Category:    draft.Category,
		FileURL:     ingested.FileURL,
		FileType:    ingested.FileType,
		StorageKey:  ingested.StorageKey,
	}

	if err := s.store.Create(ctx, resource); err != nil {
		s.reportOrphan(ctx, ingested.StorageKey, "metadata insert failed after upload")
		return nil, fmt.Errorf("create resource: insert metadata: %w", err)
	}

	return resource, nil
}

// Update rewrites the metadata of an existing resource. When a payload is
// supplied the new blob is uploaded before the row is saved and the file
// reference is replaced; without a payload the existing file_url/file_type
// are preserved exactly.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, draft ResourceDraft, payload *FilePayload) (*entity.Resource, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("update resource %s: %w: title is required", id, ErrValidationFailed)
	}

	resource, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("update resource %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update resource %s: %w", id, err)
	}

	var ingested *IngestResult
	if payload != nil {
		ingested, err = s.ingestor.Ingest(ctx, *payload)
		if err != nil {
			return nil, fmt.Errorf("update resource %s: %w", id, err)
		}
	}

	resource.Title = draft.Title
	resource.Description = draft.Description
	resource.Subject = draft.Subject
	resource.Level = draft.Level
	resource.Category = draft.Category
	if ingested != nil {
		resource.FileURL = ingested.FileURL
		resource.FileType = ingested.FileType
		resource.StorageKey = ingested.StorageKey
	}

	if err := s.store.Save(ctx, resource); err != nil {
		if ingested != nil {
			s.reportOrphan(ctx, ingested.StorageKey, "metadata save failed after upload")
		}
		return nil, fmt.Errorf("update resource %s: save metadata: %w", id, err)
	}

	return resource, nil
}

// Delete removes the metadata row only. The backing blob is left in place,
// matching the catalog's historical behavior.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("delete resource %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete resource %s: %w", id, err)
	}
	return nil
}

// IncrementDownloadCount runs the counter protocol and returns the updated
// row. Sequential increments are exact; concurrent ones may lose updates.
func (s *CatalogService) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	resource, err := s.store.IncrementDownloadCount(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("increment download count %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("increment download count %s: %w", id, err)
	}
	return resource, nil
}

// Stats summarizes the catalog for the landing and admin views.
func (s *CatalogService) Stats(ctx context.Context) (*repository.LibraryStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("library stats: %w: %w", ErrBackendUnavailable, err)
	}
	return stats, nil
}

func (s *CatalogService) reportOrphan(ctx context.Context, storageKey, reason string) {
	s.logger.WarningWithContextf(ctx, "[Catalog] Orphaned blob %s/%s: %s", s.bucket, storageKey, reason)
	if s.orphans == nil {
		return
	}
	err := s.orphans.PublishOrphanedBlob(ctx, produce.OrphanedBlobMessage{
		Bucket:     s.bucket,
		StorageKey: storageKey,
		Reason:     reason,
	})
	if err != nil {
		s.logger.WarningWithContextf(ctx, "[Catalog] Failed to report orphaned blob %s/%s: %v", s.bucket, storageKey, err)
	}
}

// PatchDownloadCount applies a successful increment to a caller-held list
// without a re-fetch, keeping the local view consistent with the store
// except under concurrent-increment races.
func PatchDownloadCount(resources []entity.Resource, id uuid.UUID, count int64) {
	for i := range resources {
		if resources[i].ID == id {
			resources[i].DownloadCount = count
			return
		}
	}
}
