package repository

import (
	"github.com/edushelf/edushelf-catalog/infra"
)

type Repository struct {
	ResourceRepo *ResourceRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		ResourceRepo: NewResourceRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
