package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/importer"
	"github.com/jafarshop/pimsync/internal/media"
	"github.com/jafarshop/pimsync/internal/repository/postgres"
	"github.com/jafarshop/pimsync/internal/shopify"
)

func main() {
	// Load .env if present (optional)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting product import",
		zap.String("shop", cfg.Shopify.ShopDomain),
		zap.String("locale", cfg.Import.Locale),
		zap.String("channel", cfg.Import.Channel),
		zap.String("currency", cfg.Import.Currency),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	client := shopify.NewClient(cfg.Shopify, logger)

	// Cancel the run on SIGINT/SIGTERM; already-persisted rows stay committed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storer, err := newStorer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize media backend", zap.Error(err))
	}

	imp := importer.New(cfg, repos, client, storer, logger)

	summary, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("Import run failed", zap.Error(err))
	}

	fmt.Printf("Import finished: %d created, %d updated\n", summary.Created, summary.Updated)
}

func newStorer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (media.Storer, error) {
	if cfg.Media.Backend == "s3" {
		return media.NewS3Storer(ctx, cfg.Media, logger)
	}
	return media.NewDiskStorer(cfg.Media.BaseDir), nil
}
