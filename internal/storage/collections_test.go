package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

func TestCollections_Lifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertMovies(ctx, []domain.Movie{
		movie(1, "Alpha", domain.DeepDive, domain.Dark),
		movie(2, "Beta", domain.ZoneOff, domain.FeelGood),
	}))
	alpha, err := st.GetMovieByTMDbID(ctx, 1)
	require.NoError(t, err)
	beta, err := st.GetMovieByTMDbID(ctx, 2)
	require.NoError(t, err)

	c, err := st.CreateCollection(ctx, domain.Collection{Title: "Friday night", Type: domain.CollectionMood, UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	require.NoError(t, st.AddToCollection(ctx, c.ID, beta.ID))
	require.NoError(t, st.AddToCollection(ctx, c.ID, alpha.ID))
	require.NoError(t, st.AddToCollection(ctx, c.ID, alpha.ID), "adding twice is a no-op")

	got, err := st.GetCollection(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Movies, 2)
	assert.Equal(t, "Beta", got.Movies[0].Title)
	assert.Equal(t, "Alpha", got.Movies[1].Title)

	require.NoError(t, st.RemoveFromCollection(ctx, c.ID, beta.ID))
	assert.ErrorIs(t, st.RemoveFromCollection(ctx, c.ID, beta.ID), ErrNotFound)

	movies, err := st.CollectionMovies(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, alpha.ID, movies[0].ID)

	require.NoError(t, st.DeleteMovie(ctx, alpha.ID))
	movies, err = st.CollectionMovies(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, movies, "deleting a movie cascades to memberships")
}

func TestCollections_UnknownIDs(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetCollection(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := st.CreateCollection(ctx, domain.Collection{Title: "x", Type: domain.CollectionArchive})
	require.NoError(t, err)
	assert.ErrorIs(t, st.AddToCollection(ctx, c.ID, "missing-movie"), ErrNotFound)
}

func TestCreateCollection_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	_, err := st.CreateCollection(context.Background(), domain.Collection{Title: "x", Type: "wishlist"})
	assert.ErrorIs(t, err, ErrInvalidCollectionType)
}

func TestListCollections_ByUserNewestFirst(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	older, err := st.CreateCollection(ctx, domain.Collection{Title: "Older", Type: domain.CollectionProject, UserID: "u1"})
	require.NoError(t, err)
	newer, err := st.CreateCollection(ctx, domain.Collection{Title: "Newer", Type: domain.CollectionOccasion, UserID: "u1"})
	require.NoError(t, err)
	_, err = st.CreateCollection(ctx, domain.Collection{Title: "Other", Type: domain.CollectionMood, UserID: "u2"})
	require.NoError(t, err)

	got, err := st.ListCollections(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
	assert.NotNil(t, got[0].Movies)

	all, err := st.ListCollections(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
