package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

type categoryFunc func(ctx context.Context, p Provider, page int, window string) (*tmdb.Page, error)

var categories = map[string]categoryFunc{
	"popular":     func(ctx context.Context, p Provider, page int, _ string) (*tmdb.Page, error) { return p.Popular(ctx, page) },
	"top-rated":   func(ctx context.Context, p Provider, page int, _ string) (*tmdb.Page, error) { return p.TopRated(ctx, page) },
	"now-playing": func(ctx context.Context, p Provider, page int, _ string) (*tmdb.Page, error) { return p.NowPlaying(ctx, page) },
	"upcoming":    func(ctx context.Context, p Provider, page int, _ string) (*tmdb.Page, error) { return p.Upcoming(ctx, page) },
	"trending":    func(ctx context.Context, p Provider, _ int, window string) (*tmdb.Page, error) { return p.Trending(ctx, window) },
}

type providerPage struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Items      []domain.Movie `json:"items"`
}

// handleTMDbCategory classifies one live provider page and applies the same
// filters as the stored movie list.
func (s *Server) handleTMDbCategory(c *gin.Context) {
	fetch, ok := categories[c.Param("category")]
	if !ok {
		writeError(c, http.StatusNotFound, "not_found")
		return
	}
	if s.provider == nil {
		writeError(c, http.StatusServiceUnavailable, "provider_unavailable")
		return
	}
	f, ok := movieFilterFrom(c)
	if !ok {
		return
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	res, err := fetch(c.Request.Context(), s.provider, page, c.DefaultQuery("window", "week"))
	if err != nil {
		if errors.Is(err, tmdb.ErrNoAPIKey) || errors.Is(err, tmdb.ErrUnavailable) {
			writeError(c, http.StatusServiceUnavailable, "provider_unavailable")
			return
		}
		_ = c.Error(err)
		s.log.Warn("provider request failed", logger.String("category", c.Param("category")), logger.Error(err))
		writeError(c, http.StatusBadGateway, "provider_error")
		return
	}

	items := make([]domain.Movie, 0, len(res.Results))
	for _, r := range res.Results {
		md := r.Metadata()
		m := s.engine.DisplayRecord(md, s.classify(md))
		if matches(f, m) {
			items = append(items, m)
		}
	}
	writeJSON(c, http.StatusOK, providerPage{Page: res.Page, TotalPages: res.TotalPages, Items: items})
}
