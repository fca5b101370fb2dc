package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/config"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/metrics"
	"github.com/denisok6893-rgb/vibereel/internal/migrate"
	"github.com/denisok6893-rgb/vibereel/internal/storage"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

type options struct {
	configPath string
	limit      int
	batchSize  int
	maxPages   int
	dryRun     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Classify top TMDb movies into the store",
		Long: `Fetches popular, top rated and trending movies from TMDb, keeps the
best ranked ones, classifies each by attention level and vibe, and upserts
them into the movie store in batches.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.IntVar(&opts.limit, "limit", 0, "number of movies to keep (default from config)")
	f.IntVar(&opts.batchSize, "batch-size", 0, "movies per store write (default from config)")
	f.IntVar(&opts.maxPages, "max-pages", 0, "pages to read per list source (default from config)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "classify and print stats without storing")
	return cmd
}

// jobConfig overlays non-zero flags on the configured migrate section.
func jobConfig(cfg config.MigrateConfig, opts options) migrate.Config {
	out := migrate.Config{
		Limit:     cfg.Limit,
		MaxPages:  cfg.MaxPages,
		BatchSize: cfg.BatchSize,
		MinVotes:  cfg.MinVotes,
		DryRun:    opts.dryRun,
	}
	if opts.limit > 0 {
		out.Limit = opts.limit
	}
	if opts.batchSize > 0 {
		out.BatchSize = opts.batchSize
	}
	if opts.maxPages > 0 {
		out.MaxPages = opts.maxPages
	}
	return out
}

func runMigrate(cmd *cobra.Command, opts options) error {
	ctx := cmd.Context()

	if err := config.LoadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cfg.TMDb.APIKey == "" {
		return errors.New("TMDB_API_KEY (or tmdb.api_key) is required")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	engine, err := classify.LoadEngine(cfg.Classify.WeightsPath, cfg.Classify.OverridesPath)
	if err != nil {
		log.Warn("classifier files skipped, using defaults", logger.Error(err))
	}

	var store migrate.Store = discardStore{}
	if !opts.dryRun {
		st, err := storage.OpenSQLite(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
		store = st
	}

	m := metrics.New()
	client := tmdb.New(cfg.TMDb.Client(), tmdb.WithLogger(log), tmdb.WithMetrics(m))
	job := migrate.New(client, store, engine, jobConfig(cfg.Migrate, opts),
		migrate.WithLogger(log.With(logger.String("component", "migrate"))),
		migrate.WithMetrics(m),
	)

	stats, err := job.Run(ctx)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(stats); encErr != nil {
		return fmt.Errorf("write stats: %w", encErr)
	}
	return err
}

// discardStore backs --dry-run.
type discardStore struct{}

func (discardStore) UpsertMovies(context.Context, []domain.Movie) error { return nil }
