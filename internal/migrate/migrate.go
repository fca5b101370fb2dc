// Package migrate fills the store with the best-ranked TMDb movies,
// classified and converted to display records.
package migrate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/metrics"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

// Provider is the subset of the TMDb client the job needs.
type Provider interface {
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
	TopRated(ctx context.Context, page int) (*tmdb.Page, error)
	Trending(ctx context.Context, window string) (*tmdb.Page, error)
	MovieByID(ctx context.Context, id int) (*tmdb.Movie, error)
}

type Store interface {
	UpsertMovies(ctx context.Context, items []domain.Movie) error
}

type Config struct {
	Limit     int
	MaxPages  int
	BatchSize int
	MinVotes  int
	// DryRun classifies without writing.
	DryRun bool
}

func (c *Config) setDefaults() {
	if c.Limit <= 0 {
		c.Limit = 500
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 10
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MinVotes < 0 {
		c.MinVotes = 0
	}
}

type Stats struct {
	Candidates int           `json:"candidates"`
	Processed  int           `json:"processed"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []string      `json:"errors"`
	Duration   time.Duration `json:"duration"`
}

type Job struct {
	provider Provider
	store    Store
	engine   *classify.Engine
	cfg      Config
	log      logger.Logger
	metrics  *metrics.Metrics
}

type Option func(*Job)

func WithLogger(l logger.Logger) Option { return func(j *Job) { j.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(j *Job) { j.metrics = m } }

func New(p Provider, s Store, e *classify.Engine, cfg Config, opts ...Option) *Job {
	cfg.setDefaults()
	j := &Job{provider: p, store: s, engine: e, cfg: cfg, log: logger.NewNop()}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run fetches, ranks, classifies and stores. Page and batch failures are
// recorded in Stats and do not stop the run; context cancellation does.
func (j *Job) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	stats.Errors = []string{}
	defer func() { stats.Duration = time.Since(start) }()

	candidates, err := j.collect(ctx, &stats)
	if err != nil {
		return stats, err
	}
	top := rank(candidates, j.cfg.Limit)
	stats.Candidates = len(top)
	j.log.Info("migration candidates ranked",
		logger.Int("unique", len(candidates)),
		logger.Int("selected", len(top)),
	)

	batch := make([]domain.Movie, 0, j.cfg.BatchSize)
	batchNo := 0
	flush := func() {
		if len(batch) == 0 {
			return
		}
		batchNo++
		if err := j.store.UpsertMovies(ctx, batch); err != nil {
			stats.Failed += len(batch)
			stats.Errors = append(stats.Errors, fmt.Sprintf("batch %d: %v", batchNo, err))
			j.log.Error("store batch failed", logger.Int("batch", batchNo), logger.Error(err))
			for range batch {
				j.metrics.ObserveMigrated(false)
			}
		} else {
			stats.Successful += len(batch)
			for range batch {
				j.metrics.ObserveMigrated(true)
			}
			j.log.Info("stored batch", logger.Int("batch", batchNo), logger.Int("count", len(batch)))
		}
		batch = batch[:0]
	}

	for _, m := range top {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		detailed := m
		if d, err := j.provider.MovieByID(ctx, m.ID); err == nil && d != nil {
			detailed = *d
		} else if ctx.Err() != nil {
			return stats, ctx.Err()
		} else {
			j.log.Debug("details unavailable, using list record", logger.Int("tmdb_id", m.ID), logger.Any("error", err))
		}

		meta := detailed.Metadata()
		c := j.engine.Classify(meta)
		j.metrics.ObserveClassification(string(c.AttentionLevel), string(c.Vibe))
		stats.Processed++

		if j.cfg.DryRun {
			stats.Successful++
			continue
		}
		batch = append(batch, j.engine.DisplayRecord(meta, c))
		if len(batch) >= j.cfg.BatchSize {
			flush()
		}
	}
	flush()

	j.log.Info("migration finished",
		logger.Int("processed", stats.Processed),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
	)
	return stats, nil
}

// collect merges popular, top rated and trending movies that pass the
// filter. A later source replaces an earlier record with the same id.
func (j *Job) collect(ctx context.Context, stats *Stats) ([]tmdb.Movie, error) {
	byID := map[int]int{}
	var out []tmdb.Movie
	add := func(ms []tmdb.Movie) {
		for _, m := range ms {
			if m.Adult || m.VoteCount <= j.cfg.MinVotes {
				continue
			}
			if i, ok := byID[m.ID]; ok {
				out[i] = m
				continue
			}
			byID[m.ID] = len(out)
			out = append(out, m)
		}
	}

	sources := []struct {
		name  string
		fetch func(context.Context, int) (*tmdb.Page, error)
		pages int
	}{
		{"popular", j.provider.Popular, j.cfg.MaxPages},
		{"top_rated", j.provider.TopRated, j.cfg.MaxPages},
		{"trending", func(ctx context.Context, _ int) (*tmdb.Page, error) {
			return j.provider.Trending(ctx, "week")
		}, 1},
	}

	for _, src := range sources {
		for page := 1; page <= src.pages; page++ {
			p, err := src.fetch(ctx, page)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				stats.Errors = append(stats.Errors, fmt.Sprintf("fetch %s page %d: %v", src.name, page, err))
				j.log.Warn("source page failed", logger.String("source", src.name), logger.Int("page", page), logger.Error(err))
				break
			}
			add(p.Results)
			if p.TotalPages > 0 && page >= p.TotalPages {
				break
			}
		}
	}
	return out, nil
}

// score favours well-rated titles with many votes, nudged by popularity.
func score(m tmdb.Movie) float64 {
	return m.VoteAverage*math.Log(float64(m.VoteCount)) + m.Popularity/100
}

func rank(ms []tmdb.Movie, limit int) []tmdb.Movie {
	sorted := append([]tmdb.Movie(nil), ms...)
	sort.SliceStable(sorted, func(i, j int) bool { return score(sorted[i]) > score(sorted[j]) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
