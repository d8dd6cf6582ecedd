package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/pimsync/internal/config"
	"github.com/jafarshop/pimsync/internal/repository/postgres"
)

func main() {
	runFlag := flag.String("run", "", "import run id (UUID) to list mappings for")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	if *runFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: list-mappings -run <import-run-uuid>")
		os.Exit(1)
	}

	runID, err := uuid.Parse(*runFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid run id: %v\n", err)
		os.Exit(1)
	}

	mappings, err := repos.Mapping.ListByRunID(context.Background(), runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list mappings: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d mappings for run %s\n\n", len(mappings), runID)
	for _, m := range mappings {
		parent := "-"
		if m.ParentExternalID != nil {
			parent = *m.ParentExternalID
		}
		fmt.Printf("%-30s  %-40s  parent: %s\n", m.Code, m.ExternalID, parent)
	}
}
