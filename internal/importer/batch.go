package importer

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/repository"
	"github.com/jafarshop/pimsync/internal/shopify"
	"github.com/jafarshop/pimsync/pkg/errors"
)

// BatchSize is the number of source rows per persisted batch
const BatchSize = shopify.PageSize

// Importer drives a full import run: fetch, batch, reconcile, summarize.
type Importer struct {
	cfg    *config.Config
	repos  *repository.Repositories
	client *shopify.Client
	storer media.Storer
	logger *zap.Logger
}

// New creates an importer
func New(cfg *config.Config, repos *repository.Repositories, client *shopify.Client, storer media.Storer, logger *zap.Logger) *Importer {
	return &Importer{
		cfg:    cfg,
		repos:  repos,
		client: client,
		storer: storer,
		logger: logger,
	}
}

// Run executes one full import: pulls every product page, splits rows
// into fixed-size batches, persists them, then reconciles batch by batch.
// Configuration problems abort before any row is processed; row failures
// never abort the run.
func (i *Importer) Run(ctx context.Context) (domain.BatchSummary, error) {
	var total domain.BatchSummary

	if !i.cfg.Shopify.Active {
		return total, &errors.ErrConfiguration{Message: "disabled Shopify credentials"}
	}

	mapping, err := LoadMapping(i.cfg.Import.MappingFile)
	if err != nil {
		return total, err
	}

	run, err := NewRunContext(ctx, i.cfg.Import, mapping, i.repos, i.logger)
	if err != nil {
		return total, err
	}

	edges := i.client.FetchAllProducts(ctx)
	i.logger.Info("Fetched products from source", zap.Int("rows", len(edges)))

	batches, err := i.saveBatches(ctx, run, edges)
	if err != nil {
		return total, err
	}

	fetcher := media.NewFetcher(i.cfg.Media.TempDir, i.logger)
	reconciler := NewReconciler(run, i.repos, fetcher, i.storer, i.logger)

	for _, batch := range batches {
		summary := i.ProcessBatch(ctx, reconciler, batch)
		total.Created += summary.Created
		total.Updated += summary.Updated
	}

	i.logger.Info("Import run finished",
		zap.String("run_id", run.RunID.String()),
		zap.Int("created", total.Created),
		zap.Int("updated", total.Updated),
	)

	return total, nil
}

// saveBatches clears previously saved batches for the run and persists
// the rows in BatchSize slices.
func (i *Importer) saveBatches(ctx context.Context, run *RunContext, edges []shopify.ProductEdge) ([]*domain.ImportBatch, error) {
	if err := i.repos.Batch.DeleteByRunID(ctx, run.RunID); err != nil {
		return nil, err
	}

	var batches []*domain.ImportBatch
	for start := 0; start < len(edges); start += BatchSize {
		end := start + BatchSize
		if end > len(edges) {
			end = len(edges)
		}

		data, err := json.Marshal(edges[start:end])
		if err != nil {
			return nil, err
		}

		batch := &domain.ImportBatch{
			ImportRunID: run.RunID,
			Data:        data,
			State:       domain.BatchStatePending,
		}
		if err := i.repos.Batch.Create(ctx, batch); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// ProcessBatch reconciles every row of one batch in source order and marks
// the batch processed with its created/updated summary. The terminal state
// is processed regardless of how many rows were skipped.
func (i *Importer) ProcessBatch(ctx context.Context, reconciler *Reconciler, batch *domain.ImportBatch) domain.BatchSummary {
	var result RowResult

	edges, err := shopify.ParseProductEdges(batch.Data)
	if err != nil {
		i.logger.Warn("Failed to decode batch rows", zap.String("batch_id", batch.ID.String()), zap.Error(err))
	} else {
		for _, edge := range edges {
			result = result.Add(reconciler.ReconcileRow(ctx, edge))
		}
	}

	summary := domain.BatchSummary{Created: result.Created, Updated: result.Updated}

	if err := i.repos.Batch.MarkProcessed(ctx, batch.ID, summary); err != nil {
		i.logger.Warn("Failed to mark batch processed", zap.String("batch_id", batch.ID.String()), zap.Error(err))
	}

	return summary
}
