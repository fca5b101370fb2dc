package migrate

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

type fakeProvider struct {
	mu         sync.Mutex
	popular    map[int][]tmdb.Movie
	topRated   map[int][]tmdb.Movie
	trending   []tmdb.Movie
	details    map[int]tmdb.Movie
	failPage   map[string]int
	pageCalls  map[string]int
	totalPages int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		popular:   map[int][]tmdb.Movie{},
		topRated:  map[int][]tmdb.Movie{},
		details:   map[int]tmdb.Movie{},
		failPage:  map[string]int{},
		pageCalls: map[string]int{},
	}
}

func (f *fakeProvider) list(name string, pages map[int][]tmdb.Movie, page int) (*tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls[name]++
	if p, ok := f.failPage[name]; ok && p == page {
		return nil, &tmdb.StatusError{Code: 500, Endpoint: name}
	}
	return &tmdb.Page{Page: page, Results: pages[page], TotalPages: f.totalPages}, nil
}

func (f *fakeProvider) Popular(_ context.Context, page int) (*tmdb.Page, error) {
	return f.list("popular", f.popular, page)
}

func (f *fakeProvider) TopRated(_ context.Context, page int) (*tmdb.Page, error) {
	return f.list("top_rated", f.topRated, page)
}

func (f *fakeProvider) Trending(_ context.Context, window string) (*tmdb.Page, error) {
	if window != "week" {
		return nil, errors.New("unexpected window " + window)
	}
	return &tmdb.Page{Page: 1, Results: f.trending}, nil
}

func (f *fakeProvider) MovieByID(_ context.Context, id int) (*tmdb.Movie, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, &tmdb.StatusError{Code: 404}
	}
	return &d, nil
}

type fakeStore struct {
	batches [][]domain.Movie
	failOn  int
}

func (s *fakeStore) UpsertMovies(_ context.Context, items []domain.Movie) error {
	s.batches = append(s.batches, append([]domain.Movie(nil), items...))
	if s.failOn > 0 && len(s.batches) == s.failOn {
		return errors.New("disk full")
	}
	return nil
}

func tm(id int, title string, votes int, avg float64) tmdb.Movie {
	return tmdb.Movie{ID: id, Title: title, VoteCount: votes, VoteAverage: avg, GenreIDs: []int{classify.GenreDrama}}
}

func TestRun_FiltersDedupesRanksAndStores(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.totalPages = 2
	p.popular[1] = []tmdb.Movie{tm(1, "Low votes", 100, 9), tm(2, "Good", 1000, 7), {ID: 3, Title: "Adult", VoteCount: 5000, Adult: true}}
	p.popular[2] = []tmdb.Movie{tm(4, "Great", 5000, 8.5)}
	p.topRated[1] = []tmdb.Movie{tm(2, "Good (top rated)", 1000, 7.1)}
	p.trending = []tmdb.Movie{tm(5, "Trendy", 200, 6)}
	p.details[4] = tmdb.Movie{ID: 4, Title: "Great", VoteCount: 5000, VoteAverage: 8.5, Runtime: 160,
		Genres: []domain.Genre{{ID: classify.GenreHistory, Name: "History"}}}

	st := &fakeStore{}
	stats, err := New(p, st, classify.NewEngine(classify.DefaultWeights()), Config{BatchSize: 2, MinVotes: 100}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Candidates)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 3, stats.Successful)
	assert.Zero(t, stats.Failed)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, 2, p.pageCalls["popular"], "stops at total_pages")

	require.Len(t, st.batches, 2)
	assert.Len(t, st.batches[0], 2)
	assert.Len(t, st.batches[1], 1)

	titles := []string{st.batches[0][0].Title, st.batches[0][1].Title, st.batches[1][0].Title}
	assert.Equal(t, []string{"Great", "Good (top rated)", "Trendy"}, titles)
	assert.Equal(t, 160, st.batches[0][0].Runtime, "details replace the list record")
	assert.Equal(t, domain.GenreList{"History"}, st.batches[0][0].Genres)
	assert.Equal(t, 120, st.batches[0][1].Runtime, "list record fallback defaults runtime")
}

func TestRun_PageErrorStopsOnlyThatSource(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.totalPages = 10
	p.popular[1] = []tmdb.Movie{tm(1, "A", 500, 7)}
	p.failPage["popular"] = 2
	p.topRated[1] = []tmdb.Movie{tm(2, "B", 500, 7)}

	st := &fakeStore{}
	stats, err := New(p, st, classify.NewEngine(classify.DefaultWeights()), Config{MaxPages: 3}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, p.pageCalls["popular"])
	assert.Equal(t, 3, p.pageCalls["top_rated"])
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "fetch popular page 2")
	assert.Equal(t, 2, stats.Successful)
}

func TestRun_FailedBatchCountsAllRows(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.totalPages = 1
	p.popular[1] = []tmdb.Movie{tm(1, "A", 500, 9), tm(2, "B", 500, 8), tm(3, "C", 500, 7)}

	st := &fakeStore{failOn: 1}
	stats, err := New(p, st, classify.NewEngine(classify.DefaultWeights()), Config{BatchSize: 2}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, stats.Successful)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "disk full")
}

func TestRun_DryRunAndLimit(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.totalPages = 1
	p.popular[1] = []tmdb.Movie{tm(1, "A", 500, 5), tm(2, "B", 500, 9), tm(3, "C", 500, 7)}

	st := &fakeStore{}
	stats, err := New(p, st, classify.NewEngine(classify.DefaultWeights()), Config{Limit: 2, DryRun: true}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 2, stats.Successful)
	assert.Empty(t, st.batches)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	p := newFakeProvider()
	p.totalPages = 1
	p.popular[1] = []tmdb.Movie{tm(1, "A", 500, 5)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(p, &fakeStore{}, classify.NewEngine(classify.DefaultWeights()), Config{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank(t *testing.T) {
	t.Parallel()

	ms := []tmdb.Movie{
		{ID: 1, VoteAverage: 8, VoteCount: 200, Popularity: 0},
		{ID: 2, VoteAverage: 7, VoteCount: 20000, Popularity: 50},
		{ID: 3, VoteAverage: 8, VoteCount: 200, Popularity: 100},
	}
	got := rank(ms, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
	assert.InDelta(t, 7*math.Log(20000)+0.5, score(ms[1]), 1e-9)
}
