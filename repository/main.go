package repository

import (
	"github.com/pastvault/asset-service/infra"
)

type Repository struct {
	AssetRepo *AssetRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		AssetRepo: NewAssetRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
