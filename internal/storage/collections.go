package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// ErrInvalidCollectionType is returned for a type outside the fixed set.
var ErrInvalidCollectionType = errors.New("invalid collection type")

const collectionColumns = `id, title, description, type, user_id, created_at`

func (s *SQLiteStore) CreateCollection(ctx context.Context, c domain.Collection) (domain.Collection, error) {
	if !c.Type.Valid() {
		return domain.Collection{}, fmt.Errorf("create collection: %w: %q", ErrInvalidCollectionType, c.Type)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	_, err := s.db.NamedExecContext(ctx, `
INSERT INTO collections (`+collectionColumns+`)
VALUES (:id, :title, :description, :type, :user_id, :created_at)`, c)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique) {
			return domain.Collection{}, fmt.Errorf("create collection %s: %w", c.ID, ErrConflict)
		}
		return domain.Collection{}, fmt.Errorf("create collection: %w", err)
	}
	c.Movies = []domain.Movie{}
	return c, nil
}

// GetCollection returns the collection with its movies.
func (s *SQLiteStore) GetCollection(ctx context.Context, id string) (domain.Collection, error) {
	var c domain.Collection
	err := s.db.GetContext(ctx, &c, `SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Collection{}, ErrNotFound
	}
	if err != nil {
		return domain.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	if c.Movies, err = s.CollectionMovies(ctx, id); err != nil {
		return domain.Collection{}, err
	}
	return c, nil
}

// ListCollections returns a user's collections, newest first, each with
// its movies. An empty userID lists every collection.
func (s *SQLiteStore) ListCollections(ctx context.Context, userID string) ([]domain.Collection, error) {
	q := `SELECT ` + collectionColumns + ` FROM collections`
	var args []any
	if userID != "" {
		q += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	q += ` ORDER BY created_at DESC, id`

	out := []domain.Collection{}
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	for i := range out {
		movies, err := s.CollectionMovies(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Movies = movies
	}
	return out, nil
}

// AddToCollection is idempotent. Unknown collection or movie ids yield
// ErrNotFound.
func (s *SQLiteStore) AddToCollection(ctx context.Context, collectionID, movieID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO collection_movies (collection_id, movie_id, added_at)
VALUES (?, ?, ?)`, collectionID, movieID, s.now())
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return ErrNotFound
		}
		return fmt.Errorf("add to collection: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveFromCollection(ctx context.Context, collectionID, movieID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_movies WHERE collection_id = ? AND movie_id = ?`, collectionID, movieID)
	if err != nil {
		return fmt.Errorf("remove from collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CollectionMovies lists a collection's movies in the order they were added.
func (s *SQLiteStore) CollectionMovies(ctx context.Context, collectionID string) ([]domain.Movie, error) {
	out := []domain.Movie{}
	err := s.db.SelectContext(ctx, &out, `
SELECT m.id, m.tmdb_id, m.title, m.attention_level, m.vibe, m.confidence, m.image_url, m.description,
  m.runtime, m.language, m.release_year, m.genres_json, m.source, m.created_at
FROM collection_movies cm
JOIN movies m ON m.id = cm.movie_id
WHERE cm.collection_id = ?
ORDER BY cm.added_at, cm.rowid`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection movies: %w", err)
	}
	return out, nil
}
