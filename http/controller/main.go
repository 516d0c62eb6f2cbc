package controller

import (
	"github.com/edushelf/edushelf-catalog/config"
	"github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/repository"
	"github.com/edushelf/edushelf-catalog/service"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Catalog    *service.CatalogService
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	ingestor := service.NewIngestor(infra.Minio)
	catalog := service.NewCatalogService(
		repo.ResourceRepo,
		ingestor,
		infra.Produce.CleanupService,
		infra.Logger,
		cfg.EnvConfig.Library.Bucket,
	)

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Catalog:    catalog,
	}
}
