// Package api exposes the prompt, profile, and rating operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/logger"
	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/profiles"
	"github.com/solefield/profile-tester/internal/prompts"
	"github.com/solefield/profile-tester/internal/rater"
	"github.com/solefield/profile-tester/internal/storage"
)

// Rater is the slice of the vision client the handlers need; the real
// implementation is *rater.Client.
type Rater interface {
	BatchRate(ctx context.Context, profileID string, items []rater.BatchItem, existing map[string]models.Rating) (map[string]models.Rating, error)
	Summarize(ctx context.Context, profileID string, ratings map[string]models.Rating) (string, []string, error)
}

type Server struct {
	log      *logger.Logger
	cfg      *config.Config
	backend  storage.Backend
	prompts  *prompts.Manager
	profiles *profiles.Store
	rater    Rater
}

func NewServer(log *logger.Logger, cfg *config.Config, backend storage.Backend, pm *prompts.Manager, ps *profiles.Store, r Rater) *Server {
	return &Server{
		log:      log.With("component", "api"),
		cfg:      cfg,
		backend:  backend,
		prompts:  pm,
		profiles: ps,
		rater:    r,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/api")
	{
		api.GET("/tests", s.listTests)
		api.POST("/tests", s.createTest)
		api.PUT("/tests/:id", s.updateTest)
		api.DELETE("/tests/:id", s.deleteTest)
		api.POST("/tests/:id/archive", s.archiveTest)
		api.POST("/tests/:id/duplicate", s.duplicateTest)

		api.GET("/profiles", s.listProfiles)
		api.GET("/profiles/:id", s.getProfile)
		api.PUT("/profiles/:id/label", s.setProfileLabel)
		api.PUT("/profiles/:id/dna", s.setProfileDNA)

		api.PUT("/profiles/:id/ratings/:title", s.setRating)
		api.DELETE("/profiles/:id/ratings/:title", s.deleteRating)
		api.DELETE("/profiles/:id/ratings", s.clearRatings)
		api.POST("/profiles/:id/rate", s.autoRate)

		api.POST("/profiles/:id/images/:testID", s.uploadImage)
		api.GET("/profiles/:id/images/:testID", s.getImage)
		api.DELETE("/profiles/:id/images/:testID", s.deleteImage)

		api.GET("/export/tests", s.exportTests)
		api.POST("/import/tests", s.importTests)
		api.GET("/export/profiles", s.exportProfiles)

		api.GET("/maintenance/orphans", s.listOrphans)
		api.POST("/maintenance/orphans/cleanup", s.cleanupOrphans)
	}

	return router
}

// requestLogger tags every request with an id and logs the outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		c.Set("request_id", reqID)
		c.Next()
		s.log.Info("request",
			"id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

// fail maps store errors to HTTP statuses and logs the failure.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, prompts.ErrNotFound),
		errors.Is(err, profiles.ErrNoRating),
		errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, prompts.ErrDuplicateID):
		status = http.StatusConflict
	case errors.Is(err, rater.ErrNothingToRate):
		status = http.StatusBadRequest
	}
	s.log.Error("request failed", "error", err.Error())
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
