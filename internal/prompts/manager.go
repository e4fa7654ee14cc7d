// Package prompts manages the test prompt collection stored as a single
// JSON array file.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/storage"
)

// ErrNotFound is returned when no test with the given id exists.
var ErrNotFound = errors.New("prompts: test not found")

// ErrDuplicateID is returned when a new test's id collides with an
// existing one. Ids derive from titles, so two titles that slug to the
// same id would leave the second record unreachable.
var ErrDuplicateID = errors.New("prompts: test id already exists")

type Manager struct {
	backend storage.Backend
	file    string
}

func NewManager(backend storage.Backend) *Manager {
	return &Manager{backend: backend, file: config.TestPromptsFile}
}

// Load returns test prompts, optionally filtered by status. An empty
// statusFilter returns everything. A missing file reads as empty.
func (m *Manager) Load(ctx context.Context, statusFilter string) ([]models.TestPrompt, error) {
	var tests []models.TestPrompt
	err := m.backend.ReadJSON(ctx, m.file, &tests)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load tests: %w", err)
	}

	if statusFilter == "" {
		return tests, nil
	}
	filtered := tests[:0]
	for _, t := range tests {
		if t.Status == statusFilter {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Save overwrites the whole test prompt file.
func (m *Manager) Save(ctx context.Context, tests []models.TestPrompt) error {
	if tests == nil {
		tests = []models.TestPrompt{}
	}
	if err := m.backend.WriteJSON(ctx, m.file, tests); err != nil {
		return fmt.Errorf("save tests: %w", err)
	}
	return nil
}

// Add appends a new test. The id is derived from the title.
func (m *Manager) Add(ctx context.Context, title, prompt, section, params, version string) (*models.TestPrompt, error) {
	if title == "" {
		return nil, fmt.Errorf("add test: title is required")
	}
	if version == "" {
		version = "v2"
	}

	tests, err := m.Load(ctx, "")
	if err != nil {
		return nil, err
	}

	id := models.SafeName(title)
	for _, t := range tests {
		if t.ID == id {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
	}

	test := models.TestPrompt{
		ID:          id,
		Title:       title,
		Prompt:      prompt,
		Section:     section,
		Params:      params,
		Status:      models.StatusCurrent,
		Version:     version,
		CreatedDate: time.Now().Format("2006-01-02"),
	}

	tests = append(tests, test)
	if err := m.Save(ctx, tests); err != nil {
		return nil, err
	}
	return &test, nil
}

// Update holds the mutable fields of a test prompt. Nil fields are left
// unchanged.
type Update struct {
	Title   *string `json:"title,omitempty"`
	Prompt  *string `json:"prompt,omitempty"`
	Section *string `json:"section,omitempty"`
	Params  *string `json:"params,omitempty"`
	Status  *string `json:"status,omitempty"`
	Version *string `json:"version,omitempty"`
}

// Update applies a partial update to the test with the given id.
func (m *Manager) Update(ctx context.Context, id string, upd Update) (*models.TestPrompt, error) {
	tests, err := m.Load(ctx, "")
	if err != nil {
		return nil, err
	}

	for i := range tests {
		if tests[i].ID != id {
			continue
		}
		if upd.Title != nil {
			tests[i].Title = *upd.Title
		}
		if upd.Prompt != nil {
			tests[i].Prompt = *upd.Prompt
		}
		if upd.Section != nil {
			tests[i].Section = *upd.Section
		}
		if upd.Params != nil {
			tests[i].Params = *upd.Params
		}
		if upd.Status != nil {
			tests[i].Status = *upd.Status
		}
		if upd.Version != nil {
			tests[i].Version = *upd.Version
		}
		if err := m.Save(ctx, tests); err != nil {
			return nil, err
		}
		return &tests[i], nil
	}
	return nil, ErrNotFound
}

// Delete removes a test permanently. Prefer Archive.
func (m *Manager) Delete(ctx context.Context, id string) error {
	tests, err := m.Load(ctx, "")
	if err != nil {
		return err
	}

	kept := tests[:0]
	for _, t := range tests {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tests) {
		return ErrNotFound
	}
	return m.Save(ctx, kept)
}

// Archive soft-deletes a test by setting its status to archived.
func (m *Manager) Archive(ctx context.Context, id string) error {
	status := models.StatusArchived
	_, err := m.Update(ctx, id, Update{Status: &status})
	return err
}

// Duplicate copies a test under a "_copy" id with a fresh created date.
func (m *Manager) Duplicate(ctx context.Context, id string, newVersion string) (*models.TestPrompt, error) {
	tests, err := m.Load(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, t := range tests {
		if t.ID != id {
			continue
		}
		dup := t
		dup.ID = t.ID + "_copy"
		dup.Title = t.Title + " (Copy)"
		for _, other := range tests {
			if other.ID == dup.ID {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, dup.ID)
			}
		}
		if newVersion != "" {
			dup.Version = newVersion
		}
		dup.CreatedDate = time.Now().Format("2006-01-02")

		tests = append(tests, dup)
		if err := m.Save(ctx, tests); err != nil {
			return nil, err
		}
		return &dup, nil
	}
	return nil, ErrNotFound
}

// GetByTitle finds a test by its exact title.
func (m *Manager) GetByTitle(ctx context.Context, title string) (*models.TestPrompt, error) {
	tests, err := m.Load(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, t := range tests {
		if t.Title == title {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}
