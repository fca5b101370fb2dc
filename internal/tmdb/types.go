package tmdb

import (
	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

const imageBaseURL = "https://image.tmdb.org/t/p/"

// Movie is a TMDb movie as returned by list and detail endpoints. Runtime,
// Genres and the trailing fields are only set by detail responses.
type Movie struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	OriginalTitle    string         `json:"original_title"`
	Overview         string         `json:"overview"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	ReleaseDate      string         `json:"release_date"`
	Adult            bool           `json:"adult"`
	GenreIDs         []int          `json:"genre_ids"`
	OriginalLanguage string         `json:"original_language"`
	Popularity       float64        `json:"popularity"`
	VoteCount        int            `json:"vote_count"`
	VoteAverage      float64        `json:"vote_average"`
	Runtime          int            `json:"runtime"`
	Genres           []domain.Genre `json:"genres"`
	Tagline          string         `json:"tagline"`
	Status           string         `json:"status"`
}

// Page is one page of a list endpoint.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Metadata converts the provider record to classifier input.
func (m Movie) Metadata() domain.MovieMetadata {
	md := domain.MovieMetadata{
		TMDbID:           m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		RuntimeMinutes:   m.Runtime,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		ReleaseDate:      m.ReleaseDate,
		OriginalLanguage: m.OriginalLanguage,
		PosterPath:       m.PosterPath,
		Adult:            m.Adult,
	}
	if len(m.GenreIDs) > 0 {
		md.GenreIDs = append([]int(nil), m.GenreIDs...)
	}
	if len(m.Genres) > 0 {
		md.Genres = append([]domain.Genre(nil), m.Genres...)
	}
	return md
}

// ImageURL builds a poster or backdrop URL for size ("w200", "w500",
// "original", ...). An empty path yields "".
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return imageBaseURL + size + path
}
