package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solefield/profile-tester/internal/models"
)

func (s *Server) listProfiles(c *gin.Context) {
	ids, err := s.profiles.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

func (s *Server) getProfile(c *gin.Context) {
	analysis, err := s.profiles.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type labelRequest struct {
	Label string `json:"label"`
}

func (s *Server) setProfileLabel(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid label payload")
		return
	}

	ctx := c.Request.Context()
	analysis, err := s.profiles.Load(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	analysis.ProfileLabel = req.Label
	if err := s.profiles.Save(ctx, analysis); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type dnaRequest struct {
	DNA []string `json:"dna"`
}

func (s *Server) setProfileDNA(c *gin.Context) {
	var req dnaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid dna payload")
		return
	}

	ctx := c.Request.Context()
	analysis, err := s.profiles.Load(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.DNA == nil {
		req.DNA = []string{}
	}
	analysis.ProfileDNA = req.DNA
	if err := s.profiles.Save(ctx, analysis); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type ratingRequest struct {
	Affinity     string  `json:"affinity" binding:"required"`
	Score        int     `json:"score" binding:"required"`
	Confidence   float64 `json:"confidence"`
	Commentary   string  `json:"commentary"`
	ColorPalette string  `json:"color-palette"`
}

func (s *Server) setRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "affinity and score are required")
		return
	}
	if !models.ValidAffinity(req.Affinity) {
		badRequest(c, "affinity must be one of native_fit, workable, resistant")
		return
	}
	if req.Score < 1 || req.Score > 10 {
		badRequest(c, "score must be between 1 and 10")
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		badRequest(c, "confidence must be between 0.0 and 1.0")
		return
	}

	analysis, err := s.profiles.SetRating(c.Request.Context(), c.Param("id"), c.Param("title"), models.Rating{
		Affinity:     req.Affinity,
		Score:        req.Score,
		Confidence:   req.Confidence,
		Commentary:   req.Commentary,
		ColorPalette: req.ColorPalette,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) deleteRating(c *gin.Context) {
	if err := s.profiles.RemoveRating(c.Request.Context(), c.Param("id"), c.Param("title")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearRatings(c *gin.Context) {
	analysis, err := s.profiles.ClearRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) exportProfiles(c *gin.Context) {
	bundle, err := s.profiles.ExportAll(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="all_profiles.json"`)
	c.JSON(http.StatusOK, bundle)
}

func (s *Server) listOrphans(c *gin.Context) {
	ctx := c.Request.Context()
	titles, err := s.validTitles(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	orphans, err := s.profiles.Orphans(ctx, titles)
	if err != nil {
		s.fail(c, err)
		return
	}
	total := 0
	for _, t := range orphans {
		total += len(t)
	}
	c.JSON(http.StatusOK, gin.H{"orphans": orphans, "total": total})
}

func (s *Server) cleanupOrphans(c *gin.Context) {
	ctx := c.Request.Context()
	titles, err := s.validTitles(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	removed, err := s.profiles.CleanupOrphans(ctx, titles)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
