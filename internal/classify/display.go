package classify

import (
	"strconv"
	"strings"
	"time"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

const (
	posterBaseURL      = "https://image.tmdb.org/t/p/w500"
	defaultDescription = "No description available."
	defaultRuntime     = 120
	defaultLanguage    = "en"
	providerSource     = "tmdb"
)

// DisplayRecord maps provider metadata plus its classification into the
// persisted/displayed movie shape. Missing fields are defaulted, never
// rejected.
func (e *Engine) DisplayRecord(m domain.MovieMetadata, c domain.ClassificationResult) domain.Movie {
	out := domain.Movie{
		TMDbID:         m.TMDbID,
		Title:          m.Title,
		AttentionLevel: c.AttentionLevel,
		Vibe:           c.Vibe,
		Confidence:     c.Confidence,
		Description:    m.Overview,
		Runtime:        m.RuntimeMinutes,
		Language:       m.OriginalLanguage,
		ReleaseYear:    releaseYear(m.ReleaseDate, e.now()),
		Genres:         displayGenres(m),
		Source:         providerSource,
	}
	if m.PosterPath != "" {
		u := posterBaseURL + m.PosterPath
		out.ImageURL = &u
	}
	if out.Description == "" {
		out.Description = defaultDescription
	}
	if out.Runtime <= 0 {
		out.Runtime = defaultRuntime
	}
	if out.Language == "" {
		out.Language = defaultLanguage
	}
	return out
}

// Convert classifies m and maps it to its display record.
func (e *Engine) Convert(m domain.MovieMetadata) domain.Movie {
	return e.DisplayRecord(m, e.Classify(m))
}

// displayGenres prefers detailed genre objects and falls back to resolving
// ids through the fixed table, dropping unknown codes.
func displayGenres(m domain.MovieMetadata) domain.GenreList {
	names := make(domain.GenreList, 0, len(m.Genres)+len(m.GenreIDs))
	if len(m.Genres) > 0 {
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		return names
	}
	for _, id := range m.GenreIDs {
		if n, ok := genreNames[id]; ok {
			names = append(names, n)
		}
	}
	return names
}

func releaseYear(date string, now time.Time) int {
	date = strings.TrimSpace(date)
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil && y > 0 {
			return y
		}
	}
	return now.Year()
}
