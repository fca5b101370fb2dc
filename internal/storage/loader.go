package storage

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
)

// LoadMetadataFromFile reads a JSON array of provider movie records, the
// shape TMDb list endpoints return in "results".
func LoadMetadataFromFile(path string) ([]domain.MovieMetadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read movies file: %w", err)
	}

	var movies []domain.MovieMetadata
	if err := json.Unmarshal(b, &movies); err != nil {
		return nil, fmt.Errorf("unmarshal movies: %w", err)
	}
	return movies, nil
}
