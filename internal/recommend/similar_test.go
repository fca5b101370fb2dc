package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

func mv(id string, a domain.AttentionLevel, v domain.Vibe, genres ...string) domain.Movie {
	return domain.Movie{ID: id, Title: id, AttentionLevel: a, Vibe: v, Genres: genres}
}

func ids(ms []domain.Movie) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestSimilar_StrategyOrder(t *testing.T) {
	t.Parallel()

	src := mv("src", domain.Immersive, domain.Dark, "Crime", "Thriller")
	candidates := []domain.Movie{
		src,
		mv("one-genre-a", domain.ZoneOff, domain.FeelGood, "Crime"),
		mv("two-genres", domain.ZoneOff, domain.FeelGood, "Thriller", "Crime"),
		mv("one-genre-b", domain.ZoneOff, domain.FeelGood, "Thriller"),
		mv("one-genre-c", domain.ZoneOff, domain.FeelGood, "Crime"),
		mv("same-attention", domain.Immersive, domain.Uplifting, "Music"),
		mv("same-vibe", domain.DeepDive, domain.Dark, "Music"),
		mv("filler", domain.ZoneOff, domain.FeelGood),
	}

	got := Similar(src, candidates, 6)
	assert.Equal(t, []string{
		"two-genres", "one-genre-a", "one-genre-b",
		"same-attention", "same-vibe", "one-genre-c",
	}, ids(got))
}

func TestSimilar_DefaultLimitAndNoDuplicates(t *testing.T) {
	t.Parallel()

	src := mv("src", domain.CasualWatch, domain.FeelGood)
	var candidates []domain.Movie
	for _, id := range []string{"a", "b", "a", "c", "d", "e", "f", "g", "h"} {
		candidates = append(candidates, mv(id, domain.CasualWatch, domain.FeelGood))
	}

	got := Similar(src, candidates, 0)
	require.Len(t, got, DefaultSimilarLimit)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, ids(got))
}

func TestSimilar_FewCandidates(t *testing.T) {
	t.Parallel()

	src := mv("src", domain.CasualWatch, domain.FeelGood, "Comedy")
	got := Similar(src, []domain.Movie{src, mv("x", domain.ZoneOff, domain.Dark)}, 6)
	assert.Equal(t, []string{"x"}, ids(got))

	assert.Empty(t, Similar(src, nil, 6))
}

func TestReason(t *testing.T) {
	t.Parallel()

	orig := mv("o", domain.CasualWatch, domain.Dark, "Comedy", "Crime", "Drama")

	assert.Equal(t, "Shared genres: Comedy, Crime",
		Reason(orig, mv("r", domain.ZoneOff, domain.FeelGood, "Drama", "Crime", "Comedy")))
	assert.Equal(t, "Same attention level: Casual Watch",
		Reason(orig, mv("r", domain.CasualWatch, domain.FeelGood, "Music")))
	assert.Equal(t, "Same vibe: dark",
		Reason(orig, mv("r", domain.DeepDive, domain.Dark)))
	assert.Equal(t, "Popular pick",
		Reason(orig, mv("r", domain.DeepDive, domain.Uplifting)))
}
