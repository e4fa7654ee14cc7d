package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solefield/profile-tester/internal/imaging"
	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/rater"
)

// autoRate collects the uploaded images for all current tests, sends the
// unrated ones to the vision model in one batch, and merges the returned
// ratings into the profile's analysis. Once enough ratings exist, the
// profile label and DNA are regenerated from the full rating set.
func (s *Server) autoRate(c *gin.Context) {
	ctx := c.Request.Context()
	profileID := c.Param("id")

	tests, err := s.prompts.Load(ctx, models.StatusCurrent)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(tests) == 0 {
		badRequest(c, "no current test prompts defined")
		return
	}

	analysis, err := s.profiles.Load(ctx, profileID)
	if err != nil {
		s.fail(c, err)
		return
	}

	var items []rater.BatchItem
	for _, test := range tests {
		path, ok, err := s.findImage(ctx, profileID, &test)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !ok {
			continue
		}

		raw, err := s.backend.ReadBytes(ctx, path)
		if err != nil {
			s.fail(c, err)
			return
		}
		thumb, err := imaging.Thumbnail(raw, s.cfg.ThumbnailSize)
		if err != nil {
			s.log.Warn("skipping undecodable image", "path", path, "error", err.Error())
			continue
		}
		items = append(items, rater.BatchItem{Test: test, Image: thumb})
	}

	if len(items) == 0 {
		badRequest(c, "no uploaded images to rate; upload test images first")
		return
	}

	ratings, err := s.rater.BatchRate(ctx, profileID, items, analysis.Ratings)
	if err != nil {
		s.raterFail(c, err)
		return
	}

	for title, rating := range ratings {
		analysis.Ratings[title] = rating
	}
	analysis.RebuildAffinitySummary()
	if err := s.profiles.Save(ctx, analysis); err != nil {
		s.fail(c, err)
		return
	}

	summarized := false
	if len(analysis.Ratings) >= s.cfg.MinRatingsForDNA {
		label, dna, err := s.rater.Summarize(ctx, profileID, analysis.Ratings)
		if err != nil {
			// Ratings are already saved; the summary can be retried
			// on the next batch.
			s.log.Error("profile summary failed", "profile", profileID, "error", err.Error())
		} else {
			analysis.ProfileLabel = label
			analysis.ProfileDNA = dna
			if err := s.profiles.Save(ctx, analysis); err != nil {
				s.fail(c, err)
				return
			}
			summarized = true
		}
	}

	s.log.Info("batch rating complete",
		"profile", profileID,
		"rated", len(ratings),
		"total", len(analysis.Ratings),
		"summarized", summarized,
	)
	c.JSON(http.StatusOK, gin.H{
		"rated":      len(ratings),
		"summarized": summarized,
		"analysis":   analysis,
	})
}

// raterFail reports upstream AI failures as 502 unless the error is a
// client-side condition.
func (s *Server) raterFail(c *gin.Context, err error) {
	if errors.Is(err, rater.ErrNothingToRate) {
		badRequest(c, "all uploaded tests are already rated")
		return
	}
	s.log.Error("vision API call failed", "error", err.Error())
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// validTitles builds the set of titles present in the prompt collection,
// archived tests included so their ratings are not treated as orphans.
func (s *Server) validTitles(ctx context.Context) (map[string]bool, error) {
	tests, err := s.prompts.Load(ctx, "")
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(tests))
	for _, t := range tests {
		titles[t.Title] = true
	}
	return titles, nil
}
