package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Attribute: NewAttributeRepository(db, logger),
		Family:    NewFamilyRepository(db, logger),
		Channel:   NewChannelRepository(db, logger),
		Category:  NewCategoryRepository(db, logger),
		Product:   NewProductRepository(db, logger),
		Mapping:   NewMappingRepository(db, logger),
		Batch:     NewBatchRepository(db, logger),
	}
}
