// Package classify maps provider movie metadata to an attention level and a
// vibe, with a confidence grade and a diagnostic explanation. Classification
// is pure: no I/O, no shared mutable state, safe for concurrent use.
package classify

import (
	"math"
	"time"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

const overrideExplanation = "Manual override for known case"

type Engine struct {
	weights   Weights
	overrides map[string]Override
	now       func() time.Time
}

type Option func(*Engine)

// WithOverrides adds manual overrides on top of the built-in ones. Keys are
// titles; they are normalized before use.
func WithOverrides(o map[string]Override) Option {
	return func(e *Engine) {
		for title, ov := range o {
			e.overrides[titleKey(title)] = ov
		}
	}
}

// WithClock sets the clock used to default a missing release year.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(w Weights, opts ...Option) *Engine {
	e := &Engine{
		weights:   w,
		overrides: make(map[string]Override, len(builtinOverrides)),
		now:       time.Now,
	}
	for title, ov := range builtinOverrides {
		e.overrides[title] = ov
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine(DefaultWeights())

// Classify runs the default engine.
func Classify(m domain.MovieMetadata) domain.ClassificationResult {
	return defaultEngine.Classify(m)
}

// Weights returns the attention signal weights in use.
func (e *Engine) Weights() Weights { return e.weights }

// Classify resolves manual overrides per field, scores the rest, and combines
// the two confidences into one grade.
func (e *Engine) Classify(m domain.MovieMetadata) domain.ClassificationResult {
	ov, overridden := e.overrides[titleKey(m.Title)]
	if overridden && ov == (Override{}) {
		overridden = false
	}

	var (
		level            domain.AttentionLevel
		levelConf        domain.Confidence
		levelExplanation string
	)
	if overridden && ov.AttentionLevel != "" {
		level, levelConf, levelExplanation = ov.AttentionLevel, domain.High, overrideExplanation
	} else {
		a := e.ScoreAttention(m)
		level, levelConf, levelExplanation = a.Level, a.Confidence, a.Explanation
	}

	var (
		vibe            domain.Vibe
		vibeConf        domain.Confidence
		vibeExplanation string
	)
	if overridden && ov.Vibe != "" {
		vibe, vibeConf, vibeExplanation = ov.Vibe, domain.High, overrideExplanation
	} else {
		v := e.ScoreVibe(m)
		vibe, vibeConf, vibeExplanation = v.Vibe, v.Confidence, v.Explanation
	}

	if overridden {
		return domain.ClassificationResult{
			AttentionLevel: level,
			Vibe:           vibe,
			Confidence:     domain.High,
			Explanation:    "Manual override applied. " + levelExplanation + ". " + vibeExplanation,
		}
	}
	return domain.ClassificationResult{
		AttentionLevel: level,
		Vibe:           vibe,
		Confidence:     overallConfidence(levelConf, vibeConf),
		Explanation:    "Attention: " + levelExplanation + ". Vibe: " + vibeExplanation,
	}
}

// ClassifyMany classifies each movie, preserving input order.
func (e *Engine) ClassifyMany(movies []domain.MovieMetadata) []domain.ClassificationResult {
	out := make([]domain.ClassificationResult, len(movies))
	for i, m := range movies {
		out[i] = e.Classify(m)
	}
	return out
}

func confidenceValue(c domain.Confidence) int {
	switch c {
	case domain.High:
		return 3
	case domain.Medium:
		return 2
	default:
		return 1
	}
}

func overallConfidence(a, v domain.Confidence) domain.Confidence {
	avg := float64(confidenceValue(a)+confidenceValue(v)) / 2
	switch {
	case avg >= 2.5:
		return domain.High
	case avg >= 1.5:
		return domain.Medium
	default:
		return domain.Low
	}
}

// sanitize clamps out-of-domain numeric fields so malformed records cannot
// jump tiers: negative runtime reads as unknown, ratings stay in [0,10].
func sanitize(m domain.MovieMetadata) domain.MovieMetadata {
	if m.RuntimeMinutes < 0 {
		m.RuntimeMinutes = 0
	}
	if m.VoteCount < 0 {
		m.VoteCount = 0
	}
	if math.IsNaN(m.VoteAverage) {
		m.VoteAverage = 0
	}
	m.VoteAverage = clamp(m.VoteAverage, 0, 10)
	if math.IsNaN(m.Popularity) || m.Popularity < 0 {
		m.Popularity = 0
	}
	return m
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
