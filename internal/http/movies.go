package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/recommend"
	"github.com/denisok6893-rgb/vibereel/internal/storage"
)

type listResponse[T any] struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
	Items  []T `json:"items"`
}

type SimilarItem struct {
	Movie  domain.Movie `json:"movie"`
	Reason string       `json:"reason"`
}

func (s *Server) handleMoviesCreate(c *gin.Context) {
	var m domain.MovieMetadata
	if !decodeBody(c, &m) {
		return
	}
	if m.TMDbID <= 0 || strings.TrimSpace(m.Title) == "" {
		writeError(c, http.StatusBadRequest, "invalid_movie")
		return
	}
	created, err := s.store.CreateMovie(c.Request.Context(), s.engine.DisplayRecord(m, s.classify(m)))
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

func (s *Server) handleMoviesList(c *gin.Context) {
	f, ok := movieFilterFrom(c)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c, storage.DefaultLimit, 0)
	f.Limit, f.Offset = limit, offset

	items, total, err := s.store.ListMovies(c.Request.Context(), f)
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, listResponse[domain.Movie]{Limit: limit, Offset: offset, Total: total, Items: items})
}

func (s *Server) handleMovieGet(c *gin.Context) {
	m, err := s.store.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, m)
}

func (s *Server) handleMovieDelete(c *gin.Context) {
	if err := s.store.DeleteMovie(c.Request.Context(), c.Param("id")); err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleMovieSimilar(c *gin.Context) {
	ctx := c.Request.Context()
	source, err := s.store.GetMovie(ctx, c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	all, err := s.store.AllMovies(ctx)
	if err != nil {
		s.storeError(c, err)
		return
	}

	similar := recommend.Similar(source, all, queryInt(c, "limit", recommend.DefaultSimilarLimit))
	items := make([]SimilarItem, len(similar))
	for i, m := range similar {
		items[i] = SimilarItem{Movie: m, Reason: recommend.Reason(source, m)}
	}
	writeJSON(c, http.StatusOK, gin.H{"items": items})
}

// movieFilterFrom reads the shared attention/vibe/language/year filters and
// writes a 400 when an enum value is unknown.
func movieFilterFrom(c *gin.Context) (storage.MovieFilter, bool) {
	var f storage.MovieFilter
	if v := c.Query("attention_level"); v != "" {
		level, err := classify.ParseAttentionLevel(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid_enum")
			return f, false
		}
		f.AttentionLevel = level
	}
	if v := c.Query("vibe"); v != "" {
		vibe, err := classify.ParseVibe(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid_enum")
			return f, false
		}
		f.Vibe = vibe
	}
	f.Language = c.Query("language")
	if v, err := strconv.Atoi(c.Query("release_year")); err == nil {
		f.ReleaseYear = v
	}
	f.Search = strings.TrimSpace(c.Query("search"))
	return f, true
}

// matches applies f to a movie that is not in the store.
func matches(f storage.MovieFilter, m domain.Movie) bool {
	if f.AttentionLevel != "" && m.AttentionLevel != f.AttentionLevel {
		return false
	}
	if f.Vibe != "" && m.Vibe != f.Vibe {
		return false
	}
	if f.Language != "" && m.Language != f.Language {
		return false
	}
	if f.ReleaseYear != 0 && m.ReleaseYear != f.ReleaseYear {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
