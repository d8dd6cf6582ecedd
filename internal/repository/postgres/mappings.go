package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/pkg/errors"
)

type mappingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMappingRepository creates a new identity mapping repository
func NewMappingRepository(db *sql.DB, logger *zap.Logger) *mappingRepository {
	return &mappingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *mappingRepository) GetByCode(ctx context.Context, code string) (*domain.IdentityMapping, error) {
	query := `
		SELECT id, code, external_id, import_run_id, parent_external_id, created_at, updated_at
		FROM identity_mappings
		WHERE code = $1
	`

	var mapping domain.IdentityMapping

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&mapping.ID,
		&mapping.Code,
		&mapping.ExternalID,
		&mapping.ImportRunID,
		&mapping.ParentExternalID,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "identity_mapping", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get identity mapping by code", zap.Error(err))
		return nil, err
	}

	return &mapping, nil
}

// Create inserts a mapping. A concurrent insert of the same (code, run) pair
// resolves to "mapping already exists" via the unique constraint.
func (r *mappingRepository) Create(ctx context.Context, mapping *domain.IdentityMapping) error {
	query := `
		INSERT INTO identity_mappings (id, code, external_id, import_run_id, parent_external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code, import_run_id) DO NOTHING
	`

	now := time.Now()
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	if mapping.UpdatedAt.IsZero() {
		mapping.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.Code,
		mapping.ExternalID,
		mapping.ImportRunID,
		mapping.ParentExternalID,
		mapping.CreatedAt,
		mapping.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create identity mapping", zap.Error(err))
		return err
	}

	return nil
}

func (r *mappingRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.IdentityMapping, error) {
	query := `
		SELECT id, code, external_id, import_run_id, parent_external_id, created_at, updated_at
		FROM identity_mappings
		WHERE import_run_id = $1
		ORDER BY code ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to list identity mappings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var mappings []*domain.IdentityMapping
	for rows.Next() {
		var mapping domain.IdentityMapping
		err := rows.Scan(
			&mapping.ID,
			&mapping.Code,
			&mapping.ExternalID,
			&mapping.ImportRunID,
			&mapping.ParentExternalID,
			&mapping.CreatedAt,
			&mapping.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, &mapping)
	}

	return mappings, rows.Err()
}
