// Package httpapi exposes the classifier, the movie store, collections and
// recommendations as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/denisok6893-rgb/vibereel/internal/classify"
	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/metrics"
	"github.com/denisok6893-rgb/vibereel/internal/storage"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

const maxBatch = 500

// Store is the persistence the API reads and writes.
type Store interface {
	Ping(ctx context.Context) error
	CreateMovie(ctx context.Context, m domain.Movie) (domain.Movie, error)
	GetMovie(ctx context.Context, id string) (domain.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
	ListMovies(ctx context.Context, f storage.MovieFilter) ([]domain.Movie, int, error)
	AllMovies(ctx context.Context) ([]domain.Movie, error)
	CreateCollection(ctx context.Context, c domain.Collection) (domain.Collection, error)
	GetCollection(ctx context.Context, id string) (domain.Collection, error)
	ListCollections(ctx context.Context, userID string) ([]domain.Collection, error)
	AddToCollection(ctx context.Context, collectionID, movieID string) error
	RemoveFromCollection(ctx context.Context, collectionID, movieID string) error
}

// Provider serves live TMDb list endpoints.
type Provider interface {
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
	TopRated(ctx context.Context, page int) (*tmdb.Page, error)
	NowPlaying(ctx context.Context, page int) (*tmdb.Page, error)
	Upcoming(ctx context.Context, page int) (*tmdb.Page, error)
	Trending(ctx context.Context, window string) (*tmdb.Page, error)
}

type Server struct {
	engine   *classify.Engine
	store    Store
	provider Provider
	log      logger.Logger
	metrics  *metrics.Metrics
}

type Option func(*Server)

// WithProvider enables /api/v1/tmdb/*.
func WithProvider(p Provider) Option { return func(s *Server) { s.provider = p } }
func WithLogger(l logger.Logger) Option { return func(s *Server) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(s *Server) { s.metrics = m } }

func NewServer(engine *classify.Engine, store Store, opts ...Option) *Server {
	s := &Server{engine: engine, store: store, log: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(requestIDMiddleware(), loggerMiddleware(s.log), metricsMiddleware(s.metrics), recoveryMiddleware(s.log))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/classify", s.handleClassify)
	v1.POST("/classify/batch", s.handleClassifyBatch)
	v1.POST("/display", s.handleDisplay)

	v1.GET("/movies", s.handleMoviesList)
	v1.POST("/movies", s.handleMoviesCreate)
	v1.GET("/movies/:id", s.handleMovieGet)
	v1.DELETE("/movies/:id", s.handleMovieDelete)
	v1.GET("/movies/:id/similar", s.handleMovieSimilar)

	v1.POST("/collections", s.handleCollectionsCreate)
	v1.GET("/collections", s.handleCollectionsList)
	v1.GET("/collections/:id", s.handleCollectionGet)
	v1.POST("/collections/:id/movies", s.handleCollectionAddMovie)
	v1.DELETE("/collections/:id/movies/:movie_id", s.handleCollectionRemoveMovie)

	v1.GET("/recommendations", s.handleRecommendations)
	v1.GET("/tmdb/:category", s.handleTMDbCategory)

	r.NoRoute(func(c *gin.Context) { writeError(c, http.StatusNotFound, "not_found") })
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.store != nil {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			s.log.Error("health check failed", logger.Error(err))
			writeJSON(c, http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleClassify(c *gin.Context) {
	var m domain.MovieMetadata
	if !decodeBody(c, &m) {
		return
	}
	writeJSON(c, http.StatusOK, s.classify(m))
}

func (s *Server) handleClassifyBatch(c *gin.Context) {
	var ms []domain.MovieMetadata
	if !decodeBody(c, &ms) {
		return
	}
	if len(ms) > maxBatch {
		writeError(c, http.StatusBadRequest, "too_many_items")
		return
	}
	out := make([]domain.ClassificationResult, len(ms))
	for i, m := range ms {
		out[i] = s.classify(m)
	}
	writeJSON(c, http.StatusOK, out)
}

type DisplayRequest struct {
	Movie          domain.MovieMetadata         `json:"movie"`
	Classification *domain.ClassificationResult `json:"classification,omitempty"`
}

func (s *Server) handleDisplay(c *gin.Context) {
	var req DisplayRequest
	if !decodeBody(c, &req) {
		return
	}
	var cl domain.ClassificationResult
	if req.Classification != nil {
		cl = *req.Classification
		if _, err := classify.ParseAttentionLevel(string(cl.AttentionLevel)); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_enum")
			return
		}
		if _, err := classify.ParseVibe(string(cl.Vibe)); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_enum")
			return
		}
	} else {
		cl = s.classify(req.Movie)
	}
	writeJSON(c, http.StatusOK, s.engine.DisplayRecord(req.Movie, cl))
}

func (s *Server) classify(m domain.MovieMetadata) domain.ClassificationResult {
	res := s.engine.Classify(m)
	s.metrics.ObserveClassification(string(res.AttentionLevel), string(res.Vibe))
	return res
}

// storeError maps storage errors to a status and logs anything unexpected.
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found")
	case errors.Is(err, storage.ErrConflict):
		writeError(c, http.StatusConflict, "conflict")
	case errors.Is(err, storage.ErrInvalidCollectionType):
		writeError(c, http.StatusBadRequest, "invalid_enum")
	default:
		_ = c.Error(err)
		s.log.Error("store failure", logger.String("path", c.FullPath()), logger.Error(err))
		writeError(c, http.StatusInternalServerError, "internal")
	}
}

func decodeBody(c *gin.Context, v any) bool {
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

func parseLimitOffset(c *gin.Context, defLimit, defOffset int) (int, int) {
	limit := defLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	if limit > storage.MaxLimit {
		limit = storage.MaxLimit
	}

	offset := defOffset
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}
	return limit, offset
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}
