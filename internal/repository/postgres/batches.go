package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/domain"
)

type batchRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBatchRepository creates a new import batch repository
func NewBatchRepository(db *sql.DB, logger *zap.Logger) *batchRepository {
	return &batchRepository{
		db:     db,
		logger: logger,
	}
}

func (r *batchRepository) Create(ctx context.Context, batch *domain.ImportBatch) error {
	query := `
		INSERT INTO import_batches (id, import_run_id, data, state, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if batch.State == "" {
		batch.State = domain.BatchStatePending
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now

	summary, err := json.Marshal(batch.Summary)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		batch.ID,
		batch.ImportRunID,
		batch.Data,
		batch.State,
		summary,
		batch.CreatedAt,
		batch.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create import batch", zap.Error(err))
		return err
	}

	return nil
}

func (r *batchRepository) DeleteByRunID(ctx context.Context, runID uuid.UUID) error {
	query := `
		DELETE FROM import_batches
		WHERE import_run_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to delete import batches", zap.Error(err))
		return err
	}

	return nil
}

func (r *batchRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.ImportBatch, error) {
	query := `
		SELECT id, import_run_id, data, state, summary, created_at, updated_at
		FROM import_batches
		WHERE import_run_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to list import batches", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var batches []*domain.ImportBatch
	for rows.Next() {
		var batch domain.ImportBatch
		var summary []byte
		err := rows.Scan(
			&batch.ID,
			&batch.ImportRunID,
			&batch.Data,
			&batch.State,
			&summary,
			&batch.CreatedAt,
			&batch.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(summary) > 0 {
			if err := json.Unmarshal(summary, &batch.Summary); err != nil {
				return nil, err
			}
		}
		batches = append(batches, &batch)
	}

	return batches, rows.Err()
}

func (r *batchRepository) MarkProcessed(ctx context.Context, id uuid.UUID, summary domain.BatchSummary) error {
	query := `
		UPDATE import_batches
		SET state = $2, summary = $3, updated_at = $4
		WHERE id = $1
	`

	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, id, domain.BatchStateProcessed, data, time.Now())
	if err != nil {
		r.logger.Error("Failed to mark import batch processed", zap.Error(err))
		return err
	}

	return nil
}
