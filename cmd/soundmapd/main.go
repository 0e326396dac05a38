package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"soundmap/internal/async"
	"soundmap/internal/cleanup"
	"soundmap/internal/common"
	"soundmap/internal/export"
	"soundmap/internal/pipeline"
	"soundmap/internal/plot"
	"soundmap/internal/repository"
	"soundmap/internal/server"
	"soundmap/internal/settings"
	"soundmap/internal/survey"
)

func main() {
	// Logger
	zl, _ := zap.NewProduction()
	defer zl.Sync()
	log := zl.Sugar()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("creating storage dirs: %v", err)
	}

	schema, err := survey.LoadTableSchema(cfg.Transform.SchemaPath)
	if err != nil {
		log.Fatalf("loading table schema: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Store
	entc, pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer repository.Close(entc, pool, logger)

	if err := repository.Migrate(ctx, entc); err != nil {
		log.Fatalf("migrating store: %v", err)
	}
	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		log.Fatalf("store health failed: %v", err)
	}
	log.Infow("store health OK")

	jobs := repository.NewJobRepository(entc, logger)

	// Pipeline
	renderers, err := plot.ForKinds(cfg.Transform.PlotKinds)
	if err != nil {
		log.Fatalf("configuring renderers: %v", err)
	}
	st := settings.NewStore(cfg.Transform.FixedMax, cfg.Transform.PlotKinds)
	proc := pipeline.NewProcessor(
		logger,
		jobs,
		schema,
		renderers,
		export.NewService(logger),
		st,
		cfg.Storage.ResultDir,
	)
	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Worker.Workers),
		async.WithQueueSize(cfg.Worker.QueueSize),
		async.WithProcessTimeout(cfg.Worker.ProcessTimeout),
	)

	sweeper := cleanup.NewSweeper(
		cfg.Storage.UploadDir,
		cfg.Storage.ResultDir,
		cfg.Storage.MaxAge,
		jobs,
		logger,
	)

	// HTTP server
	h := server.NewHandler(
		jobs, queue, sweeper, st,
		cfg.Storage.UploadDir, cfg.Storage.ResultDir,
		cfg.Server.MaxUploadBytes,
		logger,
	)
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	// Drain in-flight jobs so no row is left in "processing" forever.
	queue.Shutdown(shutCtx)
	fmt.Println("stopped.")
}
