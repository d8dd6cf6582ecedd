package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/pkg/errors"
)

type familyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFamilyRepository creates a new attribute family repository
func NewFamilyRepository(db *sql.DB, logger *zap.Logger) *familyRepository {
	return &familyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *familyRepository) GetByID(ctx context.Context, id int64) (*domain.AttributeFamily, error) {
	query := `
		SELECT id, code
		FROM attribute_families
		WHERE id = $1
	`

	var family domain.AttributeFamily

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&family.ID,
		&family.Code,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "attribute_family", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		r.logger.Error("Failed to get attribute family by id", zap.Error(err))
		return nil, err
	}

	configQuery := `
		SELECT attribute_code
		FROM family_configurable_attributes
		WHERE family_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, configQuery, id)
	if err != nil {
		r.logger.Error("Failed to load configurable attributes", zap.Int64("family_id", id), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		family.ConfigurableAttributeCodes = append(family.ConfigurableAttributeCodes, code)
	}

	return &family, rows.Err()
}
