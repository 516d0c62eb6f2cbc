package controller

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/edushelf/edushelf-catalog/entity"
	"github.com/edushelf/edushelf-catalog/http/controller/dto"
	"github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/repository"
	"github.com/edushelf/edushelf-catalog/service"
	"github.com/edushelf/edushelf-catalog/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Cached catalog views. The TTL bounds staleness for readers that race a
// mutation on another instance; mutations on this instance invalidate (or
// patch) the keys directly.
const (
	listCacheKey    = "library:resources"
	recentCacheKey  = "library:recent"
	statsCacheKey   = "library:stats"
	catalogCacheTTL = 30 * time.Second
)

// viewCache is the slice of the Redis client the cached views need.
type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func (ctrl *Controller) ListResources(c *gin.Context) {
	ctx := c.Request.Context()

	filter := repository.Filter{
		Search:   c.Query("search"),
		Subject:  c.Query("subject"),
		Level:    c.Query("level"),
		Category: c.Query("category"),
	}

	// Only the unfiltered listing is cached; filtered queries always hit
	// the store.
	if filter.IsZero() {
		var cached []entity.Resource
		if err := ctrl.Infra.Redis.Get(ctx, listCacheKey, &cached); err == nil {
			utils.JSON200(c, gin.H{"resources": cached, "count": len(cached)})
			return
		}
	}

	resources, err := ctrl.Catalog.List(ctx, filter)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to list resources")
		utils.JSON502(c, "Catalog backend unavailable")
		return
	}

	if filter.IsZero() {
		if err := ctrl.Infra.Redis.Set(ctx, listCacheKey, resources, catalogCacheTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Resource] Failed to cache resource listing: %v", err)
		}
	}

	utils.JSON200(c, gin.H{"resources": resources, "count": len(resources)})
}

func (ctrl *Controller) GetRecentResources(c *gin.Context) {
	ctx := c.Request.Context()

	defaultLimit := ctrl.Config.EnvConfig.Library.RecentLimit
	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if limit == defaultLimit {
		var cached []entity.Resource
		if err := ctrl.Infra.Redis.Get(ctx, recentCacheKey, &cached); err == nil {
			utils.JSON200(c, gin.H{"resources": cached, "count": len(cached)})
			return
		}
	}

	resources, err := ctrl.Catalog.Recent(ctx, limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to fetch recent resources")
		utils.JSON502(c, "Catalog backend unavailable")
		return
	}

	if limit == defaultLimit {
		if err := ctrl.Infra.Redis.Set(ctx, recentCacheKey, resources, catalogCacheTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Resource] Failed to cache recent resources: %v", err)
		}
	}

	utils.JSON200(c, gin.H{"resources": resources, "count": len(resources)})
}

func (ctrl *Controller) GetResource(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid resource id")
		return
	}

	resource, err := ctrl.Catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Resource not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to get resource %s", id)
		utils.JSON500(c, "Failed to get resource")
		return
	}

	utils.JSON200(c, resource)
}

func (ctrl *Controller) GetLibraryStats(c *gin.Context) {
	ctx := c.Request.Context()

	var cached repository.LibraryStats
	if err := ctrl.Infra.Redis.Get(ctx, statsCacheKey, &cached); err == nil {
		utils.JSON200(c, cached)
		return
	}

	stats, err := ctrl.Catalog.Stats(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to compute library stats")
		utils.JSON502(c, "Catalog backend unavailable")
		return
	}

	if err := ctrl.Infra.Redis.Set(ctx, statsCacheKey, stats, catalogCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Resource] Failed to cache library stats: %v", err)
	}

	utils.JSON200(c, stats)
}

func (ctrl *Controller) GetTaxonomy(c *gin.Context) {
	utils.JSON200(c, gin.H{
		"subjects":   entity.Subjects,
		"levels":     entity.Levels,
		"categories": entity.Categories,
	})
}

func (ctrl *Controller) CreateResource(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.ResourceForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	payload, closePayload, err := formFilePayload(c)
	if err != nil {
		utils.JSON400(c, "Failed to read file: "+err.Error())
		return
	}
	defer closePayload()

	resource, err := ctrl.Catalog.Create(ctx, draftFromForm(form), payload)
	if err != nil {
		ctrl.writeMutationError(c, err, "create")
		return
	}

	invalidateCatalogViews(ctx, ctrl.Infra.Redis, ctrl.Infra.Logger)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Resource] Created resource %s (%s)", resource.ID, resource.Title)
	utils.JSON201(c, resource)
}

func (ctrl *Controller) UpdateResource(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid resource id")
		return
	}

	var form dto.ResourceForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid request payload: "+err.Error())
		return
	}

	payload, closePayload, err := formFilePayload(c)
	if err != nil {
		utils.JSON400(c, "Failed to read file: "+err.Error())
		return
	}
	defer closePayload()

	resource, err := ctrl.Catalog.Update(ctx, id, draftFromForm(form), payload)
	if err != nil {
		ctrl.writeMutationError(c, err, "update")
		return
	}

	invalidateCatalogViews(ctx, ctrl.Infra.Redis, ctrl.Infra.Logger)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Resource] Updated resource %s (%s)", resource.ID, resource.Title)
	utils.JSON200(c, resource)
}

func (ctrl *Controller) DeleteResource(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid resource id")
		return
	}

	if err := ctrl.Catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Resource not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to delete resource %s", id)
		utils.JSON500(c, "Failed to delete resource")
		return
	}

	invalidateCatalogViews(ctx, ctrl.Infra.Redis, ctrl.Infra.Logger)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Resource] Deleted resource %s", id)
	utils.JSON200(c, gin.H{"message": "Resource deleted"})
}

// DownloadResource runs the counter protocol and hands back the updated row
// with its file_url; the client follows the URL itself.
func (ctrl *Controller) DownloadResource(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid resource id")
		return
	}

	resource, err := ctrl.Catalog.IncrementDownloadCount(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON404(c, "Resource not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to increment download count for %s", id)
		utils.JSON500(c, "Failed to register download")
		return
	}

	patchCatalogViews(ctx, ctrl.Infra.Redis, ctrl.Infra.Logger, resource.ID, resource.DownloadCount)

	utils.JSON200(c, resource)
}

// patchCatalogViews applies a successful download increment to the cached
// listing views in place of discarding them, and drops the stats summary
// whose download total is now stale. Best-effort: a miss or a failed write
// leaves the TTL to converge the view.
func patchCatalogViews(ctx context.Context, cache viewCache, logger *infra.LoggerClient, id uuid.UUID, count int64) {
	for _, key := range []string{listCacheKey, recentCacheKey} {
		var cached []entity.Resource
		if err := cache.Get(ctx, key, &cached); err != nil {
			continue
		}
		service.PatchDownloadCount(cached, id, count)
		if err := cache.Set(ctx, key, cached, catalogCacheTTL); err != nil {
			logger.WarningWithContextf(ctx, "[Resource] Failed to patch cached view %s: %v", key, err)
		}
	}

	if err := cache.Delete(ctx, statsCacheKey); err != nil {
		logger.WarningWithContextf(ctx, "[Resource] Failed to invalidate stats cache: %v", err)
	}
}

// invalidateCatalogViews drops every cached catalog view after a mutation.
func invalidateCatalogViews(ctx context.Context, cache viewCache, logger *infra.LoggerClient) {
	if err := cache.Delete(ctx, listCacheKey, recentCacheKey, statsCacheKey); err != nil {
		logger.WarningWithContextf(ctx, "[Resource] Failed to invalidate catalog views: %v", err)
	}
}

func (ctrl *Controller) writeMutationError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.JSON404(c, "Resource not found")
	case errors.Is(err, service.ErrUploadFailed):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Upload failed during %s", op)
		utils.JSON502(c, "File upload failed")
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Resource] Failed to %s resource", op)
		utils.JSON500(c, "Failed to "+op+" resource")
	}
}

func draftFromForm(form dto.ResourceForm) service.ResourceDraft {
	return service.ResourceDraft{
		Title:       form.Title,
		Description: form.Description,
		Subject:     form.Subject,
		Level:       form.Level,
		Category:    form.Category,
	}
}

// formFilePayload reads the optional "file" part. A missing part yields a
// nil payload; the service decides whether that is acceptable.
func formFilePayload(c *gin.Context) (*service.FilePayload, func(), error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, func() {}, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	payload := &service.FilePayload{
		Reader:       file,
		Size:         fileHeader.Size,
		OriginalName: fileHeader.Filename,
		ContentType:  contentType,
	}

	return payload, func() { _ = file.Close() }, nil
}
