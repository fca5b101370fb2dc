// Package recommend ranks stored movies against a source movie or against
// the attention levels and vibes a user has collected.
package recommend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

const (
	DefaultSimilarLimit = 6
	maxGenreMatches     = 3
	maxReasonGenres     = 2
)

// Similar picks up to limit candidates related to source. Genre overlap is
// tried first (at most three, most shared genres first), then the same
// attention level, then the same vibe; remaining slots are filled in
// candidate order. The source and duplicates are never returned.
func Similar(source domain.Movie, candidates []domain.Movie, limit int) []domain.Movie {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	out := make([]domain.Movie, 0, limit)
	seen := map[string]bool{key(source): true}
	take := func(ms []domain.Movie, quota int) {
		for _, m := range ms {
			if len(out) >= limit || quota == 0 {
				return
			}
			k := key(m)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, m)
			quota--
		}
	}

	if len(source.Genres) > 0 {
		type match struct {
			movie  domain.Movie
			shared int
		}
		var matches []match
		for _, m := range candidates {
			if n := len(sharedGenres(source.Genres, m.Genres)); n > 0 {
				matches = append(matches, match{m, n})
			}
		}
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].shared > matches[j].shared })
		byGenre := make([]domain.Movie, len(matches))
		for i, m := range matches {
			byGenre[i] = m.movie
		}
		take(byGenre, maxGenreMatches)
	}

	take(filter(candidates, func(m domain.Movie) bool { return m.AttentionLevel == source.AttentionLevel }), -1)
	take(filter(candidates, func(m domain.Movie) bool { return m.Vibe == source.Vibe }), -1)
	take(candidates, -1)
	return out
}

// Reason explains the strongest link between original and rec.
func Reason(original, rec domain.Movie) string {
	if shared := sharedGenres(original.Genres, rec.Genres); len(shared) > 0 {
		if len(shared) > maxReasonGenres {
			shared = shared[:maxReasonGenres]
		}
		return "Shared genres: " + strings.Join(shared, ", ")
	}
	if original.AttentionLevel == rec.AttentionLevel {
		return "Same attention level: " + classify.Label(original.AttentionLevel)
	}
	if original.Vibe == rec.Vibe {
		return "Same vibe: " + string(original.Vibe)
	}
	return "Popular pick"
}

// sharedGenres keeps a's order.
func sharedGenres(a, b domain.GenreList) []string {
	var out []string
	for _, g := range a {
		if b.Has(g) {
			out = append(out, g)
		}
	}
	return out
}

func filter(ms []domain.Movie, keep func(domain.Movie) bool) []domain.Movie {
	var out []domain.Movie
	for _, m := range ms {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func key(m domain.Movie) string {
	if m.ID != "" {
		return m.ID
	}
	return "tmdb:" + strconv.Itoa(m.TMDbID)
}
