package classify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// Signal is one partial attention score and the weight it was fused with.
type Signal struct {
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// AttentionScore is the attention half of a classification.
type AttentionScore struct {
	Level       domain.AttentionLevel `json:"level"`
	Score       float64               `json:"score"`
	Confidence  domain.Confidence     `json:"confidence"`
	Explanation string                `json:"explanation"`
	Signals     []Signal              `json:"signals,omitempty"`
}

// ScoreAttention fuses genre, runtime, synopsis, popularity and rating
// signals into an attention tier. It ignores manual overrides.
func (e *Engine) ScoreAttention(m domain.MovieMetadata) AttentionScore {
	m = sanitize(m)
	genres := m.GenreCodes()
	text := searchText(m.Title, m.Overview)

	signals := []Signal{
		{"genre", genreAttentionScore(genres), e.weights.Genre},
		{"runtime", runtimeScore(m.RuntimeMinutes), e.weights.Runtime},
		{"synopsis", synopsisComplexity(text), e.weights.Synopsis},
		{"popularity", popularityAdjustment(m.Popularity), e.weights.Popularity},
		{"rating", ratingSignal(m.VoteAverage, m.VoteCount), e.weights.Rating},
	}

	var score float64
	for _, s := range signals {
		score += s.Value * s.Weight
	}

	level := attentionLevelFor(score)
	return AttentionScore{
		Level:       level,
		Score:       score,
		Confidence:  attentionConfidence(score, genres, m.Overview, text),
		Explanation: attentionExplanation(score, level, m.RuntimeMinutes, signals),
		Signals:     signals,
	}
}

func genreAttentionScore(genres []int) float64 {
	if len(genres) == 0 {
		return defaultGenreAttention
	}
	var sum float64
	for _, id := range genres {
		w, ok := genreAttentionWeights[id]
		if !ok {
			w = defaultGenreAttention
		}
		sum += w
	}
	return sum / float64(len(genres))
}

func runtimeScore(minutes int) float64 {
	switch {
	case minutes == 0:
		return 0.5
	case minutes > 150:
		return 0.9
	case minutes > 120:
		return 0.7
	case minutes > 90:
		return 0.5
	case minutes > 60:
		return 0.3
	default:
		return 0.1
	}
}

func synopsisComplexity(text string) float64 {
	score := 0.5
	score += float64(attentionKeywords[bucketDeepDive].count(text)) * 0.2
	score += float64(attentionKeywords[bucketImmersive].count(text)) * 0.15
	score += float64(attentionKeywords[bucketCasual].count(text)) * 0.05
	score -= float64(attentionKeywords[bucketBackground].count(text)) * 0.1
	return clamp01(score)
}

// popularityAdjustment is inverse: very popular titles tend to be broadly
// accessible.
func popularityAdjustment(popularity float64) float64 {
	switch {
	case popularity > 100:
		return 0.3
	case popularity > 50:
		return 0.4
	case popularity > 20:
		return 0.5
	case popularity > 5:
		return 0.6
	default:
		return 0.7
	}
}

func ratingSignal(rating float64, votes int) float64 {
	if votes < 100 {
		return 0.5
	}
	switch {
	case rating >= 8.0 && votes >= 1000:
		return 0.8
	case rating >= 7.5 && votes >= 500:
		return 0.7
	case rating >= 7.0:
		return 0.6
	case rating < 6.0:
		return 0.3
	default:
		return 0.5
	}
}

// attentionLevelFor maps a fused score to a tier; lower bounds are inclusive.
func attentionLevelFor(score float64) domain.AttentionLevel {
	switch {
	case score >= 0.85:
		return domain.DeepDive
	case score >= 0.65:
		return domain.Immersive
	case score >= 0.45:
		return domain.CasualWatch
	case score >= 0.25:
		return domain.BackgroundComfort
	default:
		return domain.ZoneOff
	}
}

func attentionConfidence(score float64, genres []int, overview, text string) domain.Confidence {
	factors := 0
	for _, ok := range []bool{
		len(genres) > 0,
		utf8.RuneCountInString(overview) > 50,
		attentionKeywords[bucketDeepDive].any(text),
		attentionKeywords[bucketImmersive].any(text),
	} {
		if ok {
			factors++
		}
	}

	switch {
	case factors >= 3 && (score <= 0.3 || score >= 0.7):
		return domain.High
	case factors >= 2:
		return domain.Medium
	default:
		return domain.Low
	}
}

func attentionExplanation(score float64, level domain.AttentionLevel, runtime int, signals []Signal) string {
	parts := make([]string, 0, len(signals))
	for _, s := range signals {
		switch s.Type {
		case "genre":
			parts = append(parts, fmt.Sprintf("Genre score: %.2f", s.Value))
		case "runtime":
			parts = append(parts, fmt.Sprintf("Runtime: %dmin (%.2f)", runtime, s.Value))
		case "synopsis":
			parts = append(parts, fmt.Sprintf("Synopsis complexity: %.2f", s.Value))
		case "popularity":
			parts = append(parts, fmt.Sprintf("Popularity adjustment: %.2f", s.Value))
		case "rating":
			parts = append(parts, fmt.Sprintf("Rating signal: %.2f", s.Value))
		}
	}
	return fmt.Sprintf("Final score: %.2f -> %s. Signals: %s", score, level, strings.Join(parts, ", "))
}
