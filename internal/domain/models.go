package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// AttentionLevel describes how much sustained focus a title demands.
type AttentionLevel string

const (
	DeepDive          AttentionLevel = "deep-dive"
	Immersive         AttentionLevel = "immersive"
	CasualWatch       AttentionLevel = "casual-watch"
	BackgroundComfort AttentionLevel = "background-comfort"
	ZoneOff           AttentionLevel = "zone-off"
)

// Vibe is the emotional tone label of a title.
type Vibe string

const (
	Dark        Vibe = "dark"
	MindBending Vibe = "mind-bending"
	Uplifting   Vibe = "uplifting"
	FeelGood    Vibe = "feel-good"
	Melancholic Vibe = "melancholic"
)

// Confidence is a qualitative trust grade, not a probability.
type Confidence string

const (
	High   Confidence = "High"
	Medium Confidence = "Medium"
	Low    Confidence = "Low"
)

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieMetadata is one provider record. Search/discover responses carry
// GenreIDs; detail responses carry Genres and Runtime.
type MovieMetadata struct {
	TMDbID           int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	RuntimeMinutes   int     `json:"runtime"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
}

// GenreCodes returns GenreIDs, or the ids of the detailed Genres when the
// provider sent those instead.
func (m MovieMetadata) GenreCodes() []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	if len(m.Genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

type ClassificationResult struct {
	AttentionLevel AttentionLevel `json:"attention_level"`
	Vibe           Vibe           `json:"vibe"`
	Confidence     Confidence     `json:"confidence"`
	Explanation    string         `json:"explanation"`
}

// Movie is the persisted and displayed shape of a classified title.
type Movie struct {
	ID             string         `json:"id"              db:"id"`
	TMDbID         int            `json:"tmdb_id"         db:"tmdb_id"`
	Title          string         `json:"title"           db:"title"`
	AttentionLevel AttentionLevel `json:"attention_level" db:"attention_level"`
	Vibe           Vibe           `json:"vibe"            db:"vibe"`
	Confidence     Confidence     `json:"confidence"      db:"confidence"`
	ImageURL       *string        `json:"image_url"       db:"image_url"`
	Description    string         `json:"description"     db:"description"`
	Runtime        int            `json:"runtime"         db:"runtime"`
	Language       string         `json:"language"        db:"language"`
	ReleaseYear    int            `json:"release_year"    db:"release_year"`
	Genres         GenreList      `json:"genres"          db:"genres_json"`
	Source         string         `json:"source"          db:"source"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
}

// GenreList is stored as a JSON array column.
type GenreList []string

func (g GenreList) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}
	return string(b), nil
}

func (g *GenreList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*g = GenreList{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("scan genres: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("unmarshal genres: %w", err)
	}
	*g = out
	return nil
}

// Has reports whether name is in the list.
func (g GenreList) Has(name string) bool {
	for _, n := range g {
		if n == name {
			return true
		}
	}
	return false
}

type CollectionType string

const (
	CollectionOccasion CollectionType = "occasion"
	CollectionMood     CollectionType = "mood"
	CollectionProject  CollectionType = "project"
	CollectionArchive  CollectionType = "archive"
)

// Valid reports whether t is one of the known collection types.
func (t CollectionType) Valid() bool {
	switch t {
	case CollectionOccasion, CollectionMood, CollectionProject, CollectionArchive:
		return true
	}
	return false
}

type Collection struct {
	ID          string         `json:"id"          db:"id"`
	Title       string         `json:"title"       db:"title"`
	Description string         `json:"description" db:"description"`
	Type        CollectionType `json:"type"        db:"type"`
	UserID      string         `json:"user_id"     db:"user_id"`
	CreatedAt   time.Time      `json:"created_at"  db:"created_at"`
	Movies      []Movie        `json:"movies,omitempty" db:"-"`
}
