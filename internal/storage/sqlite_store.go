package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path with foreign keys on
// and WAL journaling.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

var schema = []string{`
CREATE TABLE IF NOT EXISTS movies (
  id TEXT PRIMARY KEY,
  tmdb_id INTEGER NOT NULL UNIQUE,
  title TEXT NOT NULL,
  attention_level TEXT NOT NULL,
  vibe TEXT NOT NULL,
  confidence TEXT NOT NULL,
  image_url TEXT,
  description TEXT NOT NULL DEFAULT '',
  runtime INTEGER NOT NULL DEFAULT 0,
  language TEXT NOT NULL DEFAULT '',
  release_year INTEGER NOT NULL DEFAULT 0,
  genres_json TEXT NOT NULL DEFAULT '[]',
  source TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_movies_attention ON movies(attention_level);`,
	`CREATE INDEX IF NOT EXISTS idx_movies_vibe ON movies(vibe);`,
	`
CREATE TABLE IF NOT EXISTS collections (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL CHECK (type IN ('occasion','mood','project','archive')),
  user_id TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_collections_user ON collections(user_id);`,
	`
CREATE TABLE IF NOT EXISTS collection_movies (
  collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
  movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
  added_at TIMESTAMP NOT NULL,
  PRIMARY KEY (collection_id, movie_id)
);`,
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const movieColumns = `id, tmdb_id, title, attention_level, vibe, confidence, image_url, description,
  runtime, language, release_year, genres_json, source, created_at`

const insertMovie = `
INSERT INTO movies (` + movieColumns + `)
VALUES (:id, :tmdb_id, :title, :attention_level, :vibe, :confidence, :image_url, :description,
  :runtime, :language, :release_year, :genres_json, :source, :created_at)`

func (s *SQLiteStore) CountMovies(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// UpsertMovies writes items in one transaction. A row with an existing
// tmdb_id keeps its id and created_at; everything else is replaced.
func (s *SQLiteStore) UpsertMovies(ctx context.Context, items []domain.Movie) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx, insertMovie+`
ON CONFLICT(tmdb_id) DO UPDATE SET
  title = excluded.title,
  attention_level = excluded.attention_level,
  vibe = excluded.vibe,
  confidence = excluded.confidence,
  image_url = excluded.image_url,
  description = excluded.description,
  runtime = excluded.runtime,
  language = excluded.language,
  release_year = excluded.release_year,
  genres_json = excluded.genres_json,
  source = excluded.source`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for _, m := range items {
		s.stamp(&m, now)
		if _, err := stmt.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("upsert movie %d: %w", m.TMDbID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// CreateMovie inserts m, assigning an id when empty. A duplicate tmdb_id
// yields ErrConflict.
func (s *SQLiteStore) CreateMovie(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	s.stamp(&m, s.now())
	if _, err := s.db.NamedExecContext(ctx, insertMovie, m); err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey) {
			return domain.Movie{}, fmt.Errorf("create movie %d: %w", m.TMDbID, ErrConflict)
		}
		return domain.Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) stamp(m *domain.Movie, now time.Time) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.Genres == nil {
		m.Genres = domain.GenreList{}
	}
}

func (s *SQLiteStore) GetMovie(ctx context.Context, id string) (domain.Movie, error) {
	var m domain.Movie
	err := s.db.GetContext(ctx, &m, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movie{}, ErrNotFound
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) GetMovieByTMDbID(ctx context.Context, tmdbID int) (domain.Movie, error) {
	var m domain.Movie
	err := s.db.GetContext(ctx, &m, `SELECT `+movieColumns+` FROM movies WHERE tmdb_id = ?`, tmdbID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movie{}, ErrNotFound
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("get movie by tmdb id: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) DeleteMovie(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MovieFilter narrows ListMovies. Zero values mean no constraint.
type MovieFilter struct {
	AttentionLevel domain.AttentionLevel
	Vibe           domain.Vibe
	Language       string
	ReleaseYear    int
	Search         string
	Limit          int
	Offset         int
}

func (f MovieFilter) page() (limit, offset int) {
	limit, offset = f.Limit, f.Offset
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListMovies returns one page of matches ordered by title plus the total
// match count.
func (s *SQLiteStore) ListMovies(ctx context.Context, f MovieFilter) ([]domain.Movie, int, error) {
	limit, offset := f.page()

	where := make([]string, 0, 5)
	args := make([]any, 0, 7)
	if f.AttentionLevel != "" {
		where = append(where, "attention_level = ?")
		args = append(args, f.AttentionLevel)
	}
	if f.Vibe != "" {
		where = append(where, "vibe = ?")
		args = append(args, f.Vibe)
	}
	if f.Language != "" {
		where = append(where, "language = ?")
		args = append(args, f.Language)
	}
	if f.ReleaseYear > 0 {
		where = append(where, "release_year = ?")
		args = append(args, f.ReleaseYear)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where = append(where, "(LOWER(title) LIKE '%' || LOWER(?) || '%' OR LOWER(description) LIKE '%' || LOWER(?) || '%')")
		args = append(args, q, q)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM movies`+whereSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	out := []domain.Movie{}
	rowsArgs := append(append([]any{}, args...), limit, offset)
	if err := s.db.SelectContext(ctx, &out,
		`SELECT `+movieColumns+` FROM movies`+whereSQL+` ORDER BY title COLLATE NOCASE, id LIMIT ? OFFSET ?`,
		rowsArgs...); err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	return out, total, nil
}

// AllMovies returns every stored movie, ordered by title.
func (s *SQLiteStore) AllMovies(ctx context.Context) ([]domain.Movie, error) {
	out := []domain.Movie{}
	if err := s.db.SelectContext(ctx, &out, `SELECT `+movieColumns+` FROM movies ORDER BY title COLLATE NOCASE, id`); err != nil {
		return nil, fmt.Errorf("list all movies: %w", err)
	}
	return out, nil
}

func isConstraint(err error, codes ...sqlite3.ErrNoExtended) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	for _, c := range codes {
		if se.ExtendedCode == c {
			return true
		}
	}
	return false
}
