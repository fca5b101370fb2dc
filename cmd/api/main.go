package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/config"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	httpapi "github.com/denisok6893-rgb/vibereel/internal/http"
	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/metrics"
	"github.com/denisok6893-rgb/vibereel/internal/storage"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	engine, err := classify.LoadEngine(cfg.Classify.WeightsPath, cfg.Classify.OverridesPath)
	if err != nil {
		log.Warn("classifier files skipped, using defaults", logger.Error(err))
	}

	if cfg.Database.SeedPath != "" {
		if err := seed(ctx, store, engine, cfg.Database.SeedPath, log); err != nil {
			return err
		}
	}

	m := metrics.New()
	opts := []httpapi.Option{httpapi.WithLogger(log), httpapi.WithMetrics(m)}
	if cfg.TMDb.APIKey != "" {
		opts = append(opts, httpapi.WithProvider(tmdb.New(cfg.TMDb.Client(),
			tmdb.WithLogger(log.With(logger.String("component", "tmdb"))),
			tmdb.WithMetrics(m),
		)))
	} else {
		log.Info("tmdb api key not set, live provider endpoints disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpapi.NewServer(engine, store, opts...).Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API listening", logger.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received", logger.Duration("timeout", cfg.Server.ShutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// seed classifies a JSON file of provider movies into an empty store.
func seed(ctx context.Context, store *storage.SQLiteStore, engine *classify.Engine, path string, log logger.Logger) error {
	n, err := store.CountMovies(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	items, err := storage.LoadMetadataFromFile(path)
	if err != nil {
		return err
	}
	movies := make([]domain.Movie, len(items))
	for i, md := range items {
		movies[i] = engine.Convert(md)
	}
	if err := store.UpsertMovies(ctx, movies); err != nil {
		return err
	}
	log.Info("seeded movies", logger.Int("count", len(movies)), logger.String("path", path))
	return nil
}
