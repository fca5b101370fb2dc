package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/denisok6893-rgb/vibereel/internal/domain"
	"github.com/denisok6893-rgb/vibereel/internal/recommend"
)

var validate = validator.New()

type CreateCollectionRequest struct {
	Title       string                `json:"title"       validate:"required,max=200"`
	Description string                `json:"description" validate:"max=2000"`
	Type        domain.CollectionType `json:"type"        validate:"oneof=occasion mood project archive"`
	UserID      string                `json:"user_id"     validate:"max=200"`
}

type AddMovieRequest struct {
	MovieID string `json:"movie_id" validate:"required"`
}

// validationCode maps a failed struct validation to an error code: enum
// fields report invalid_enum, anything else fallback.
func validationCode(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "oneof" {
				return "invalid_enum"
			}
		}
	}
	return fallback
}

func (s *Server) handleCollectionsCreate(c *gin.Context) {
	var req CreateCollectionRequest
	if !decodeBody(c, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, validationCode(err, "invalid_collection"))
		return
	}
	col, err := s.store.CreateCollection(c.Request.Context(), domain.Collection{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		UserID:      req.UserID,
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, col)
}

func (s *Server) handleCollectionsList(c *gin.Context) {
	cols, err := s.store.ListCollections(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	if cols == nil {
		cols = []domain.Collection{}
	}
	writeJSON(c, http.StatusOK, gin.H{"items": cols})
}

func (s *Server) handleCollectionGet(c *gin.Context) {
	col, err := s.store.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, col)
}

func (s *Server) handleCollectionAddMovie(c *gin.Context) {
	var req AddMovieRequest
	if !decodeBody(c, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, validationCode(err, "invalid_movie"))
		return
	}
	if err := s.store.AddToCollection(c.Request.Context(), c.Param("id"), req.MovieID); err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "added"})
}

func (s *Server) handleCollectionRemoveMovie(c *gin.Context) {
	if err := s.store.RemoveFromCollection(c.Request.Context(), c.Param("id"), c.Param("movie_id")); err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "removed"})
}

// handleRecommendations scores every stored movie against the vibes and
// attention levels the user already collects.
func (s *Server) handleRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	cols, err := s.store.ListCollections(ctx, c.Query("user_id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	all, err := s.store.AllMovies(ctx)
	if err != nil {
		s.storeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"preferences": recommend.PreferencesFrom(cols),
		"items":       recommend.ForCollections(cols, all, queryInt(c, "limit", recommend.DefaultPreferenceLimit)),
	})
}
