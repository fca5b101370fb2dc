package classify

import (
	"strings"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// AttentionLevels lists the tiers from most to least attention-demanding.
func AttentionLevels() []domain.AttentionLevel {
	return []domain.AttentionLevel{
		domain.DeepDive,
		domain.Immersive,
		domain.CasualWatch,
		domain.BackgroundComfort,
		domain.ZoneOff,
	}
}

// Vibes lists vibes in declared order. Vibe selection breaks ties by this
// order.
func Vibes() []domain.Vibe {
	return []domain.Vibe{
		domain.Dark,
		domain.MindBending,
		domain.Uplifting,
		domain.FeelGood,
		domain.Melancholic,
	}
}

// Label turns an enum id like "casual-watch" into "Casual Watch".
func Label[T ~string](id T) string {
	parts := strings.Split(string(id), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
