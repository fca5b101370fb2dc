package classify

import (
	"errors"
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid attention weights")

// Weights defines the coefficient of each attention signal.
type Weights struct {
	Genre      float64 `json:"genre"`
	Runtime    float64 `json:"runtime"`
	Synopsis   float64 `json:"synopsis"`
	Popularity float64 `json:"popularity"`
	Rating     float64 `json:"rating"`
}

// DefaultWeights returns the production signal mix. It sums to 1.
func DefaultWeights() Weights {
	return Weights{
		Genre:      0.4,
		Runtime:    0.2,
		Synopsis:   0.2,
		Popularity: 0.1,
		Rating:     0.1,
	}
}

func (w Weights) sum() float64 {
	return w.Genre + w.Runtime + w.Synopsis + w.Popularity + w.Rating
}

// Validate checks every weight is in [0,1] and that they sum to 1, since the
// final score is never re-normalized.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"genre": w.Genre, "runtime": w.Runtime, "synopsis": w.Synopsis,
		"popularity": w.Popularity, "rating": w.Rating,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v out of [0,1]", ErrInvalidWeights, name, v)
		}
	}
	if s := w.sum(); math.Abs(s-1) > 1e-9 {
		return fmt.Errorf("%w: sum=%v, want 1", ErrInvalidWeights, s)
	}
	return nil
}

// LoadWeightsFromFile loads weights from JSON file. On any failure it returns
// the defaults together with the error.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	var loaded Weights
	if err := json.Unmarshal(b, &loaded); err != nil {
		return w, fmt.Errorf("unmarshal weights: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return w, err
	}
	return loaded, nil
}

// LoadOverridesFromFile reads a JSON object of title -> override. Titles are
// normalized the same way lookups are. An empty override disables a built-in
// one for that title.
func LoadOverridesFromFile(path string) (map[string]Override, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides file: %w", err)
	}
	var raw map[string]Override
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal overrides: %w", err)
	}
	out := make(map[string]Override, len(raw))
	for title, o := range raw {
		if o.AttentionLevel != "" {
			if _, err := ParseAttentionLevel(string(o.AttentionLevel)); err != nil {
				return nil, fmt.Errorf("override %q: %w", title, err)
			}
		}
		if o.Vibe != "" {
			if _, err := ParseVibe(string(o.Vibe)); err != nil {
				return nil, fmt.Errorf("override %q: %w", title, err)
			}
		}
		out[titleKey(title)] = o
	}
	return out, nil
}

// LoadEngine builds an engine from optional weights and overrides files.
// It always returns a usable engine: a bad weights file leaves the defaults
// and a bad overrides file leaves only the built-ins. The returned error
// reports what was skipped.
func LoadEngine(weightsPath, overridesPath string, opts ...Option) (*Engine, error) {
	var errs []error

	w := DefaultWeights()
	if weightsPath != "" {
		loaded, err := LoadWeightsFromFile(weightsPath)
		if err != nil {
			errs = append(errs, err)
		}
		w = loaded
	}
	if overridesPath != "" {
		o, err := LoadOverridesFromFile(overridesPath)
		if err != nil {
			errs = append(errs, err)
		} else {
			opts = append(opts, WithOverrides(o))
		}
	}
	return NewEngine(w, opts...), errors.Join(errs...)
}

// ParseAttentionLevel validates s against the fixed attention enum.
func ParseAttentionLevel(s string) (domain.AttentionLevel, error) {
	for _, l := range AttentionLevels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown attention level %q", s)
}

// ParseVibe validates s against the fixed vibe enum.
func ParseVibe(s string) (domain.Vibe, error) {
	for _, v := range Vibes() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vibe %q", s)
}
