package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain/repository"
	"github.com/route-search-service/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewRouteRepositoryForTest creates a route repository with test database and logger
func NewRouteRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RouteRepository {
	return postgres.NewRouteRepository(NewDBForTest(db, logger))
}

// NewCatalogueWriterForTest creates a catalogue writer with test database and logger
func NewCatalogueWriterForTest(db *sqlx.DB, logger *zap.Logger) repository.CatalogueWriter {
	return postgres.NewCatalogueWriter(NewDBForTest(db, logger))
}
