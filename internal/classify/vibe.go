package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// VibeScore is the vibe half of a classification. Scores are additive and
// un-normalized: they may exceed 1 or go negative after corrections, and only
// their ranking matters.
type VibeScore struct {
	Vibe        domain.Vibe             `json:"vibe"`
	Confidence  domain.Confidence       `json:"confidence"`
	Explanation string                  `json:"explanation"`
	Scores      map[domain.Vibe]float64 `json:"scores,omitempty"`
}

// ScoreVibe accumulates genre, keyword and rating-context scores per vibe,
// applies trap corrections and picks the strictly highest vibe. It ignores
// manual overrides.
func (e *Engine) ScoreVibe(m domain.MovieMetadata) VibeScore {
	m = sanitize(m)
	ids := uniqueGenres(m.GenreCodes())
	genres := newGenreSet(ids)
	text := searchText(m.Title, m.Overview)

	scores := make(map[domain.Vibe]float64, len(Vibes()))
	for _, v := range Vibes() {
		scores[v] = 0
	}

	for _, id := range ids {
		for v, w := range genreVibeWeights[id] {
			scores[v] += w
		}
	}

	for v, kw := range vibeKeywords {
		scores[v] += float64(kw.count(text)) * 0.3
	}

	// Acclaimed tragic films lean melancholic-with-hope; poorly rated
	// violent ones lean dark.
	if m.VoteAverage >= 8.5 && genres.any(GenreDrama, GenreWar) {
		scores[domain.Melancholic] += 0.2
		scores[domain.Uplifting] += 0.1
	}
	if m.VoteAverage < 6.0 && genres.any(GenreHorror, GenreThriller, GenreCrime) {
		scores[domain.Dark] += 0.3
	}

	correctTraps(genres, text, scores)

	top := topVibe(scores)
	return VibeScore{
		Vibe:        top,
		Confidence:  vibeConfidence(scores),
		Explanation: fmt.Sprintf("Top vibe: %s (%.2f). Genre signals + keyword analysis + rating context", top, scores[top]),
		Scores:      scores,
	}
}

// correctTraps adjusts accumulated scores for known systematic
// misclassifications. Every matching rule applies.
func correctTraps(genres genreSet, text string, scores map[domain.Vibe]float64) {
	// Dark comedy.
	if genres.has(GenreComedy) && (genres.has(GenreCrime) || containsAny(text, "murder", "crime")) {
		scores[domain.Dark] += 0.4
		scores[domain.FeelGood] -= 0.3
	}

	// War films stay melancholic even when hopeful.
	if genres.has(GenreWar) || containsAny(text, "war", "holocaust") {
		scores[domain.Melancholic] += 0.3
		scores[domain.Uplifting] -= 0.2
	}

	// Light family animation.
	if genres.has(GenreAnimation) && genres.has(GenreFamily) && !containsAny(text, "dark", "complex") {
		scores[domain.FeelGood] += 0.4
		scores[domain.MindBending] -= 0.3
	}

	// Sci-fi is not automatically mind-bending.
	if genres.has(GenreSciFi) && !vibeKeywords[domain.MindBending].any(text) {
		scores[domain.MindBending] -= 0.2
	}

	if genres.has(GenreRomance) && containsAny(text, "love", "romantic") {
		scores[domain.FeelGood] += 0.3
	}
}

// topVibe returns the vibe with the strictly highest score; ties go to the
// earliest vibe in declared order.
func topVibe(scores map[domain.Vibe]float64) domain.Vibe {
	order := Vibes()
	best := order[0]
	for _, v := range order[1:] {
		if scores[v] > scores[best] {
			best = v
		}
	}
	return best
}

func vibeConfidence(scores map[domain.Vibe]float64) domain.Confidence {
	sorted := make([]float64, 0, len(scores))
	for _, s := range scores {
		sorted = append(sorted, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	top := sorted[0]
	var second float64
	if len(sorted) > 1 {
		second = sorted[1]
	}
	spread := top - second

	switch {
	case top > 0.8 && spread > 0.3:
		return domain.High
	case top > 0.5 && spread > 0.2:
		return domain.Medium
	default:
		return domain.Low
	}
}

// uniqueGenres drops repeated codes, keeping first-seen order so float
// sums are accumulated in a stable order.
func uniqueGenres(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type genreSet map[int]struct{}

func newGenreSet(ids []int) genreSet {
	s := make(genreSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s genreSet) has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s genreSet) any(ids ...int) bool {
	for _, id := range ids {
		if s.has(id) {
			return true
		}
	}
	return false
}

func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}
