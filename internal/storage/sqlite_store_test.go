package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	require.NoError(t, st.EnsureSchema(context.Background()))
	return st
}

func movie(tmdbID int, title string, a domain.AttentionLevel, v domain.Vibe) domain.Movie {
	return domain.Movie{
		TMDbID:         tmdbID,
		Title:          title,
		AttentionLevel: a,
		Vibe:           v,
		Confidence:     domain.Medium,
		Description:    title + " description",
		Runtime:        110,
		Language:       "en",
		ReleaseYear:    2001,
		Genres:         domain.GenreList{"Drama"},
		Source:         "tmdb",
	}
}

func TestUpsertMovies_InsertThenUpdate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertMovies(ctx, []domain.Movie{
		movie(1, "Alpha", domain.DeepDive, domain.Dark),
		movie(2, "Beta", domain.ZoneOff, domain.FeelGood),
	}))
	n, err := st.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := st.GetMovieByTMDbID(ctx, 1)
	require.NoError(t, err)

	updated := movie(1, "Alpha (Director's Cut)", domain.Immersive, domain.Melancholic)
	img := "https://image.tmdb.org/t/p/w500/a.jpg"
	updated.ImageURL = &img
	require.NoError(t, st.UpsertMovies(ctx, []domain.Movie{updated}))

	n, err = st.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "conflict on tmdb_id must not duplicate")

	got, err := st.GetMovie(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha (Director's Cut)", got.Title)
	assert.Equal(t, domain.Immersive, got.AttentionLevel)
	assert.Equal(t, domain.Melancholic, got.Vibe)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, img, *got.ImageURL)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt), "created_at is preserved")
	assert.Equal(t, domain.GenreList{"Drama"}, got.Genres)
}

func TestCreateGetDeleteMovie(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateMovie(ctx, movie(10, "Gamma", domain.CasualWatch, domain.Uplifting))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = st.CreateMovie(ctx, movie(10, "Gamma again", domain.CasualWatch, domain.Uplifting))
	assert.ErrorIs(t, err, ErrConflict)

	got, err := st.GetMovie(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", got.Title)
	assert.Nil(t, got.ImageURL)

	require.NoError(t, st.DeleteMovie(ctx, created.ID))
	assert.ErrorIs(t, st.DeleteMovie(ctx, created.ID), ErrNotFound)

	_, err = st.GetMovie(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMovies_Filters(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	fr := movie(3, "Amélie", domain.CasualWatch, domain.FeelGood)
	fr.Language = "fr"
	old := movie(4, "Casablanca", domain.Immersive, domain.Melancholic)
	old.ReleaseYear = 1942
	require.NoError(t, st.UpsertMovies(ctx, []domain.Movie{
		movie(1, "Zodiac", domain.Immersive, domain.Dark),
		movie(2, "Heat", domain.Immersive, domain.Dark),
		fr, old,
	}))

	all, total, err := st.ListMovies(ctx, MovieFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "Amélie", all[0].Title)

	dark, total, err := st.ListMovies(ctx, MovieFilter{AttentionLevel: domain.Immersive, Vibe: domain.Dark})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Heat", dark[0].Title)

	_, total, err = st.ListMovies(ctx, MovieFilter{Language: "fr"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = st.ListMovies(ctx, MovieFilter{ReleaseYear: 1942})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	found, total, err := st.ListMovies(ctx, MovieFilter{Search: "zodi"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Zodiac", found[0].Title)

	page, total, err := st.ListMovies(ctx, MovieFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Zodiac", page[0].Title)

	empty, total, err := st.ListMovies(ctx, MovieFilter{Vibe: domain.Uplifting})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMovieFilterPage(t *testing.T) {
	t.Parallel()

	l, o := MovieFilter{}.page()
	assert.Equal(t, DefaultLimit, l)
	assert.Zero(t, o)

	l, o = MovieFilter{Limit: 5000, Offset: -3}.page()
	assert.Equal(t, MaxLimit, l)
	assert.Zero(t, o)
}

func TestLoadMetadataFromFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(p, []byte(`[
	  {"id": 550, "title": "Fight Club", "genre_ids": [18], "vote_average": 8.4, "vote_count": 27000},
	  {"id": 13, "title": "Forrest Gump", "genres": [{"id": 35, "name": "Comedy"}], "runtime": 142}
	]`), 0o600))

	got, err := LoadMetadataFromFile(p)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 550, got[0].TMDbID)
	assert.Equal(t, []int{18}, got[0].GenreIDs)
	assert.Equal(t, []int{35}, got[1].GenreCodes())
	assert.Equal(t, 142, got[1].RuntimeMinutes)

	_, err = LoadMetadataFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
