package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solefield/profile-tester/internal/imaging"
	"github.com/solefield/profile-tester/internal/models"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 32 << 20

// findImage returns the stored image path for a profile-test pair,
// checking .jpg first and falling back to legacy .png uploads.
func (s *Server) findImage(ctx context.Context, profileID string, test *models.TestPrompt) (string, bool, error) {
	for _, ext := range imaging.ImageExts {
		path := imaging.ImagePath(profileID, test.Title, ext)
		ok, err := s.backend.Exists(ctx, path)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}
	}
	return "", false, nil
}

// testByID resolves a test prompt path parameter.
func (s *Server) testByID(ctx context.Context, id string) (*models.TestPrompt, error) {
	tests, err := s.prompts.Load(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range tests {
		if tests[i].ID == id {
			return &tests[i], nil
		}
	}
	return nil, fmt.Errorf("test %q not found", id)
}

func (s *Server) uploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	profileID := c.Param("id")

	test, err := s.testByID(ctx, c.Param("testID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "multipart field 'image' is required")
		return
	}
	if file.Size > maxUploadBytes {
		badRequest(c, "image exceeds the upload size limit")
		return
	}

	f, err := file.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	optimized, err := imaging.Optimize(raw, s.cfg.MaxImageSize, s.cfg.JPEGQuality)
	if err != nil {
		badRequest(c, "uploaded file is not a decodable image")
		return
	}

	path := imaging.ImagePath(profileID, test.Title, ".jpg")
	if err := s.backend.WriteBytes(ctx, path, optimized, "image/jpeg"); err != nil {
		s.fail(c, err)
		return
	}

	// Drop a stale legacy .png so reads pick up the new upload.
	pngPath := imaging.ImagePath(profileID, test.Title, ".png")
	if err := s.backend.Delete(ctx, pngPath); err != nil {
		s.log.Warn("failed to remove legacy image", "path", pngPath, "error", err.Error())
	}

	s.log.Info("image uploaded", "profile", profileID, "test", test.Title, "bytes", len(optimized))
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) getImage(c *gin.Context) {
	ctx := c.Request.Context()

	test, err := s.testByID(ctx, c.Param("testID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	path, ok, err := s.findImage(ctx, c.Param("id"), test)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image uploaded for this test"})
		return
	}

	data, err := s.backend.ReadBytes(ctx, path)
	if err != nil {
		s.fail(c, err)
		return
	}

	contentType := "image/jpeg"
	if strings.HasSuffix(path, ".png") {
		contentType = "image/png"
	}
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) deleteImage(c *gin.Context) {
	ctx := c.Request.Context()
	profileID := c.Param("id")

	test, err := s.testByID(ctx, c.Param("testID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	path, ok, err := s.findImage(ctx, profileID, test)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image uploaded for this test"})
		return
	}

	if err := s.backend.Delete(ctx, path); err != nil {
		s.fail(c, err)
		return
	}

	// The rating no longer has an image behind it.
	analysis, err := s.profiles.Load(ctx, profileID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if _, rated := analysis.Ratings[test.Title]; rated {
		delete(analysis.Ratings, test.Title)
		analysis.RebuildAffinitySummary()
		if err := s.profiles.Save(ctx, analysis); err != nil {
			s.fail(c, err)
			return
		}
	}

	c.Status(http.StatusNoContent)
}
