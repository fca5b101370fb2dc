package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

func TestScoreVibe_DarkComedyCorrection(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{
		Title:       "Knives",
		Overview:    "Two brothers bungle a murder.",
		GenreIDs:    []int{GenreComedy, GenreCrime},
		VoteAverage: 7.0,
	})

	assert.Equal(t, domain.Dark, got.Vibe)
	assert.InDelta(t, 1.3, got.Scores[domain.Dark], 1e-9)
	assert.InDelta(t, 0.5, got.Scores[domain.FeelGood], 1e-9)
	assert.Equal(t, domain.High, got.Confidence)
	assert.Contains(t, got.Explanation, "Top vibe: dark (1.30)")
}

func TestScoreVibe_LowRatedCrimeLeansDark(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{Title: "Heist", GenreIDs: []int{GenreCrime}, VoteAverage: 5.2})

	assert.Equal(t, domain.Dark, got.Vibe)
	assert.InDelta(t, 0.9, got.Scores[domain.Dark], 1e-9)
}

func TestScoreVibe_WarSkewsMelancholic(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{Title: "Front", GenreIDs: []int{GenreWar}, VoteAverage: 7})

	assert.Equal(t, domain.Melancholic, got.Vibe)
	assert.InDelta(t, 1.0, got.Scores[domain.Melancholic], 1e-9)
	assert.InDelta(t, 0.3, got.Scores[domain.Dark], 1e-9)
	assert.InDelta(t, -0.2, got.Scores[domain.Uplifting], 1e-9)
	assert.Equal(t, domain.High, got.Confidence)
}

func TestScoreVibe_AcclaimedDrama(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{Title: "Quiet", GenreIDs: []int{GenreDrama}, VoteAverage: 8.6})

	assert.Equal(t, domain.Melancholic, got.Vibe)
	assert.InDelta(t, 0.6, got.Scores[domain.Melancholic], 1e-9)
	assert.InDelta(t, 0.4, got.Scores[domain.Uplifting], 1e-9)
}

func TestScoreVibe_SciFiWithoutKeywordsIsNotMindBending(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())

	plain := e.ScoreVibe(domain.MovieMetadata{Title: "Orbit", GenreIDs: []int{GenreSciFi}, VoteAverage: 7})
	assert.InDelta(t, 0.4, plain.Scores[domain.MindBending], 1e-9)

	twisty := e.ScoreVibe(domain.MovieMetadata{
		Title:       "Orbit",
		Overview:    "A pilot is stuck in a time travel loop.",
		GenreIDs:    []int{GenreSciFi},
		VoteAverage: 7,
	})
	assert.InDelta(t, 0.9, twisty.Scores[domain.MindBending], 1e-9)
	assert.Equal(t, domain.MindBending, twisty.Vibe)
}

func TestScoreVibe_FamilyAnimation(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())

	light := e.ScoreVibe(domain.MovieMetadata{Title: "Paws", GenreIDs: []int{GenreAnimation, GenreFamily}, VoteAverage: 7})
	assert.Equal(t, domain.FeelGood, light.Vibe)
	assert.InDelta(t, 1.6, light.Scores[domain.FeelGood], 1e-9)
	assert.InDelta(t, -0.3, light.Scores[domain.MindBending], 1e-9)

	shadowed := e.ScoreVibe(domain.MovieMetadata{Title: "Paws in the Dark", GenreIDs: []int{GenreAnimation, GenreFamily}, VoteAverage: 7})
	assert.InDelta(t, 1.2, shadowed.Scores[domain.FeelGood], 1e-9)
	assert.InDelta(t, 0.0, shadowed.Scores[domain.MindBending], 1e-9)
}

func TestScoreVibe_RomanceWithLove(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{Title: "Love Letters", GenreIDs: []int{GenreRomance}, VoteAverage: 7})

	assert.Equal(t, domain.FeelGood, got.Vibe)
	assert.InDelta(t, 1.0, got.Scores[domain.FeelGood], 1e-9)
}

func TestScoreVibe_EmptyInputTiesToFirstDeclared(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultWeights())
	got := e.ScoreVibe(domain.MovieMetadata{})

	assert.Equal(t, domain.Dark, got.Vibe)
	assert.Equal(t, domain.Low, got.Confidence)
	for _, v := range Vibes() {
		assert.Zero(t, got.Scores[v])
	}
}

func TestTopVibe_TieBreakFollowsDeclaredOrder(t *testing.T) {
	t.Parallel()

	scores := map[domain.Vibe]float64{
		domain.Dark:        0.1,
		domain.MindBending: 0.7,
		domain.Uplifting:   0.2,
		domain.FeelGood:    0.7,
		domain.Melancholic: 0.7,
	}
	assert.Equal(t, domain.MindBending, topVibe(scores))

	scores[domain.Melancholic] = 0.71
	assert.Equal(t, domain.Melancholic, topVibe(scores))
}

func TestVibeConfidence_Spread(t *testing.T) {
	t.Parallel()

	mk := func(top, second float64) map[domain.Vibe]float64 {
		return map[domain.Vibe]float64{domain.Dark: top, domain.FeelGood: second}
	}
	assert.Equal(t, domain.High, vibeConfidence(mk(1.0, 0.6)))
	assert.Equal(t, domain.Medium, vibeConfidence(mk(1.0, 0.75)))
	assert.Equal(t, domain.Medium, vibeConfidence(mk(0.6, 0.3)))
	assert.Equal(t, domain.Low, vibeConfidence(mk(0.5, 0)))
	assert.Equal(t, domain.Low, vibeConfidence(mk(0.9, 0.85)))
}
