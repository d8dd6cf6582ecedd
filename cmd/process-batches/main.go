package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/domain"
	"github.com/jafarshop/pimsync/internal/importer"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/repository/postgres"
)

// Reprocesses the persisted batches of an earlier import run, e.g. after a
// run was interrupted. Batches already marked processed are skipped.
func main() {
	runFlag := flag.String("run", "", "import run id (UUID) whose batches to process")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *runFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: process-batches -run <import-run-uuid>")
		os.Exit(1)
	}
	cfg.Import.RunID = *runFlag

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mapping, err := importer.LoadMapping(cfg.Import.MappingFile)
	if err != nil {
		logger.Fatal("Failed to load field mapping", zap.Error(err))
	}

	run, err := importer.NewRunContext(ctx, cfg.Import, mapping, repos, logger)
	if err != nil {
		logger.Fatal("Failed to build run context", zap.Error(err))
	}

	batches, err := repos.Batch.ListByRunID(ctx, run.RunID)
	if err != nil {
		logger.Fatal("Failed to list batches", zap.Error(err))
	}

	storer, err := newStorer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize media backend", zap.Error(err))
	}

	fetcher := media.NewFetcher(cfg.Media.TempDir, logger)
	reconciler := importer.NewReconciler(run, repos, fetcher, storer, logger)
	imp := importer.New(cfg, repos, nil, storer, logger)

	var total domain.BatchSummary
	skipped := 0
	for _, batch := range batches {
		if batch.State == domain.BatchStateProcessed {
			skipped++
			continue
		}
		summary := imp.ProcessBatch(ctx, reconciler, batch)
		total.Created += summary.Created
		total.Updated += summary.Updated
	}

	fmt.Printf("Processed %d batches (%d already done): %d created, %d updated\n",
		len(batches)-skipped, skipped, total.Created, total.Updated)
}

func newStorer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (media.Storer, error) {
	if cfg.Media.Backend == "s3" {
		return media.NewS3Storer(ctx, cfg.Media, logger)
	}
	return media.NewDiskStorer(cfg.Media.BaseDir), nil
}
