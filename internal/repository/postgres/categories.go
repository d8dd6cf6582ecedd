package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/pkg/errors"
)

type categoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) *categoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *categoryRepository) GetByCode(ctx context.Context, code string) (*domain.Category, error) {
	query := `
		SELECT id, code
		FROM categories
		WHERE code = $1
	`

	var category domain.Category

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&category.ID,
		&category.Code,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "category", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get category by code", zap.Error(err))
		return nil, err
	}

	return &category, nil
}
