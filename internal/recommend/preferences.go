package recommend

import (
	"sort"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

const DefaultPreferenceLimit = 10

// Preferences counts how often each attention level and vibe appears across
// a user's collected movies.
type Preferences struct {
	AttentionLevels map[domain.AttentionLevel]int `json:"attention_levels"`
	Vibes           map[domain.Vibe]int           `json:"vibes"`
}

func PreferencesFrom(collections []domain.Collection) Preferences {
	p := Preferences{
		AttentionLevels: map[domain.AttentionLevel]int{},
		Vibes:           map[domain.Vibe]int{},
	}
	for _, c := range collections {
		for _, m := range c.Movies {
			p.AttentionLevels[m.AttentionLevel]++
			p.Vibes[m.Vibe]++
		}
	}
	return p
}

// Score is the count of m's attention level plus the count of its vibe.
func (p Preferences) Score(m domain.Movie) int {
	return p.AttentionLevels[m.AttentionLevel] + p.Vibes[m.Vibe]
}

// Scored pairs a recommended movie with its preference score.
type Scored struct {
	Movie domain.Movie `json:"movie"`
	Score int          `json:"score"`
}

// ForCollections ranks candidates not already in any of collections by
// preference score, highest first; equal scores keep candidate order.
func ForCollections(collections []domain.Collection, candidates []domain.Movie, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultPreferenceLimit
	}

	collected := map[string]bool{}
	for _, c := range collections {
		for _, m := range c.Movies {
			collected[key(m)] = true
		}
	}

	prefs := PreferencesFrom(collections)
	out := make([]Scored, 0, len(candidates))
	for _, m := range candidates {
		if collected[key(m)] {
			continue
		}
		collected[key(m)] = true
		out = append(out, Scored{Movie: m, Score: prefs.Score(m)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
