package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/prompts"
)

func (s *Server) listTests(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.StatusCurrent && status != models.StatusArchived {
		badRequest(c, "status must be 'current' or 'archived'")
		return
	}

	tests, err := s.prompts.Load(c.Request.Context(), status)
	if err != nil {
		s.fail(c, err)
		return
	}
	if tests == nil {
		tests = []models.TestPrompt{}
	}
	c.JSON(http.StatusOK, tests)
}

type createTestRequest struct {
	Title   string `json:"title" binding:"required"`
	Prompt  string `json:"prompt" binding:"required"`
	Section string `json:"section"`
	Params  string `json:"params"`
	Version string `json:"version"`
}

func (s *Server) createTest(c *gin.Context) {
	var req createTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and prompt are required")
		return
	}

	test, err := s.prompts.Add(c.Request.Context(), req.Title, req.Prompt, req.Section, req.Params, req.Version)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

func (s *Server) updateTest(c *gin.Context) {
	var upd prompts.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid update payload")
		return
	}
	if upd.Status != nil && *upd.Status != models.StatusCurrent && *upd.Status != models.StatusArchived {
		badRequest(c, "status must be 'current' or 'archived'")
		return
	}

	test, err := s.prompts.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (s *Server) deleteTest(c *gin.Context) {
	if err := s.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) archiveTest(c *gin.Context) {
	if err := s.prompts.Archive(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type duplicateTestRequest struct {
	Version string `json:"version"`
}

func (s *Server) duplicateTest(c *gin.Context) {
	var req duplicateTestRequest
	// Body is optional; a missing body duplicates with the same version.
	_ = c.ShouldBindJSON(&req)

	test, err := s.prompts.Duplicate(c.Request.Context(), c.Param("id"), req.Version)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

func (s *Server) exportTests(c *gin.Context) {
	tests, err := s.prompts.Load(c.Request.Context(), "")
	if err != nil {
		s.fail(c, err)
		return
	}
	if tests == nil {
		tests = []models.TestPrompt{}
	}
	c.Header("Content-Disposition", `attachment; filename="test_prompts.json"`)
	c.JSON(http.StatusOK, tests)
}

func (s *Server) importTests(c *gin.Context) {
	var tests []models.TestPrompt
	if err := c.ShouldBindJSON(&tests); err != nil {
		badRequest(c, "expected a JSON array of test prompts")
		return
	}

	seen := make(map[string]bool, len(tests))
	for i := range tests {
		if tests[i].Title == "" {
			badRequest(c, "every imported test needs a title")
			return
		}
		if tests[i].ID == "" {
			tests[i].ID = models.SafeName(tests[i].Title)
		}
		if seen[tests[i].ID] {
			badRequest(c, "duplicate test id in import: "+tests[i].ID)
			return
		}
		seen[tests[i].ID] = true
		if tests[i].Status == "" {
			tests[i].Status = models.StatusCurrent
		}
	}

	if err := s.prompts.Save(c.Request.Context(), tests); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(tests)})
}
