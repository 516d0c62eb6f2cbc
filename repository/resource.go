package repository

import (
	"context"

	"github.com/edushelf/edushelf-catalog/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// List returns all resources matching the filter, newest first.
func (r *ResourceRepository) List(ctx context.Context, filter Filter) ([]entity.Resource, error) {
	var resources []entity.Resource
	query := filter.Apply(r.db.WithContext(ctx).Model(&entity.Resource{}))
	if err := query.Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

// Recent returns the newest resources, bounded by limit.
func (r *ResourceRepository) Recent(ctx context.Context, limit int) ([]entity.Resource, error) {
	var resources []entity.Resource
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	var resource entity.Resource
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *ResourceRepository) Create(ctx context.Context, resource *entity.Resource) error {
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(resource).Error
}

// Save writes the full row back. Callers load the existing row first, so
// fields they did not touch (file_url, file_type, counters) are preserved.
func (r *ResourceRepository) Save(ctx context.Context, resource *entity.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Resource{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementDownloadCount bumps the counter with a read-then-write, no
// compare-and-swap. Concurrent increments can lose updates (last writer
// wins); the count is a popularity signal, not an audit log.
func (r *ResourceRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	resource, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := resource.DownloadCount + 1
	err = r.db.WithContext(ctx).
		Model(resource).
		Update("download_count", next).Error
	if err != nil {
		return nil, err
	}

	resource.DownloadCount = next
	return resource, nil
}

// LibraryStats summarizes the catalog for the landing and admin pages.
type LibraryStats struct {
	TotalResources int64 `json:"total_resources"`
	TotalDownloads int64 `json:"total_downloads"`
	Subjects       int64 `json:"subjects"`
}

func (r *ResourceRepository) Stats(ctx context.Context) (*LibraryStats, error) {
	var stats LibraryStats
	err := r.db.WithContext(ctx).
		Model(&entity.Resource{}).
		Select("COUNT(*) AS total_resources, COALESCE(SUM(download_count), 0) AS total_downloads, COUNT(DISTINCT subject) AS subjects").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
