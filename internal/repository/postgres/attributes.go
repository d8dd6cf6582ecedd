package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/pkg/errors"
)

type attributeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAttributeRepository creates a new attribute repository
func NewAttributeRepository(db *sql.DB, logger *zap.Logger) *attributeRepository {
	return &attributeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *attributeRepository) GetByCode(ctx context.Context, code string) (*domain.AttributeDefinition, error) {
	query := `
		SELECT id, code, type, is_required, value_per_locale, value_per_channel
		FROM attributes
		WHERE code = $1
	`

	var attr domain.AttributeDefinition

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&attr.ID,
		&attr.Code,
		&attr.Type,
		&attr.IsRequired,
		&attr.ValuePerLocale,
		&attr.ValuePerChannel,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "attribute", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get attribute by code", zap.Error(err))
		return nil, err
	}

	if err := r.loadOptions(ctx, &attr); err != nil {
		return nil, err
	}

	return &attr, nil
}

func (r *attributeRepository) List(ctx context.Context) ([]*domain.AttributeDefinition, error) {
	query := `
		SELECT id, code, type, is_required, value_per_locale, value_per_channel
		FROM attributes
		ORDER BY code ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list attributes", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var attrs []*domain.AttributeDefinition
	for rows.Next() {
		var attr domain.AttributeDefinition
		err := rows.Scan(
			&attr.ID,
			&attr.Code,
			&attr.Type,
			&attr.IsRequired,
			&attr.ValuePerLocale,
			&attr.ValuePerChannel,
		)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, &attr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, attr := range attrs {
		if err := r.loadOptions(ctx, attr); err != nil {
			return nil, err
		}
	}

	return attrs, nil
}

func (r *attributeRepository) loadOptions(ctx context.Context, attr *domain.AttributeDefinition) error {
	query := `
		SELECT code, label
		FROM attribute_options
		WHERE attribute_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, attr.ID)
	if err != nil {
		r.logger.Error("Failed to load attribute options", zap.String("attribute", attr.Code), zap.Error(err))
		return err
	}
	defer rows.Close()

	attr.Options = map[string]string{}
	for rows.Next() {
		var code, label string
		if err := rows.Scan(&code, &label); err != nil {
			return err
		}
		attr.Options[code] = label
	}

	return rows.Err()
}
