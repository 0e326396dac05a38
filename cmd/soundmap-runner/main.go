// soundmap-runner processes a single uploaded table against an existing job
// row. The HTTP server normally drives the pipeline through its worker pool;
// the runner exists for reprocessing and scripted use.
//
// Usage: soundmap-runner <input-file> <job-id>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"soundmap/internal/common"
	"soundmap/internal/export"
	"soundmap/internal/pipeline"
	"soundmap/internal/plot"
	"soundmap/internal/repository"
	"soundmap/internal/settings"
	"soundmap/internal/survey"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		printError("Usage: soundmap-runner <input-file> <job-id>\n")
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	jobID, err := uuid.Parse(flag.Arg(1))
	if err != nil {
		printError("Error: invalid job id %q: %v\n", flag.Arg(1), err)
		os.Exit(2)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Storage.ResultDir, 0o755); err != nil {
		logger.Error("creating result dir", "error", err)
		os.Exit(1)
	}

	schema, err := survey.LoadTableSchema(cfg.Transform.SchemaPath)
	if err != nil {
		logger.Error("loading table schema", "error", err)
		os.Exit(1)
	}

	entc, pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer repository.Close(entc, pool, logger)

	if err := repository.Migrate(ctx, entc); err != nil {
		logger.Error("migrating store", "error", err)
		os.Exit(1)
	}

	jobs := repository.NewJobRepository(entc, logger)
	if _, err := jobs.Get(ctx, jobID); err != nil {
		logger.Error("job row not found", "job_id", jobID, "error", err)
		os.Exit(1)
	}

	renderers, err := plot.ForKinds(cfg.Transform.PlotKinds)
	if err != nil {
		logger.Error("configuring renderers", "error", err)
		os.Exit(1)
	}

	proc := pipeline.NewProcessor(
		logger,
		jobs,
		schema,
		renderers,
		export.NewService(logger),
		settings.NewStore(cfg.Transform.FixedMax, cfg.Transform.PlotKinds),
		cfg.Storage.ResultDir,
	)

	// ProcessFile performs the terminal store write itself; a failed run
	// leaves the row in "error" and the runner just reports the outcome.
	status := proc.ProcessFile(ctx, inputPath, jobID)
	fmt.Printf("job %s: %s\n", jobID, status)
}
