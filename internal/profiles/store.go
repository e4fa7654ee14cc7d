// Package profiles persists one analysis document per profile under the
// profile_analyses directory.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/storage"
)

// ErrNoRating is returned when removing a rating that does not exist.
var ErrNoRating = errors.New("profiles: rating not found")

type Store struct {
	backend storage.Backend
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

func analysisPath(profileID string) string {
	return fmt.Sprintf("%s/%s_analysis.json", config.ProfileAnalysesDir, profileID)
}

// Load returns the analysis document for a profile, or a fresh empty one
// if the profile has never been analyzed.
func (s *Store) Load(ctx context.Context, profileID string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.backend.ReadJSON(ctx, analysisPath(profileID), &analysis)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NewAnalysis(profileID), nil
		}
		return nil, fmt.Errorf("load analysis %s: %w", profileID, err)
	}
	if analysis.Ratings == nil {
		analysis.Ratings = map[string]models.Rating{}
	}
	if analysis.ProfileDNA == nil {
		analysis.ProfileDNA = []string{}
	}
	return &analysis, nil
}

// Save writes the analysis document, stamping the current analysis version.
func (s *Store) Save(ctx context.Context, analysis *models.Analysis) error {
	analysis.AnalysisVersion = config.AnalysisVersion
	if err := s.backend.WriteJSON(ctx, analysisPath(analysis.ProfileID), analysis); err != nil {
		return fmt.Errorf("save analysis %s: %w", analysis.ProfileID, err)
	}
	return nil
}

// List returns the ids of all profiles with a saved analysis, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	files, err := s.backend.List(ctx, config.ProfileAnalysesDir, "_analysis.json")
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	var ids []string
	for _, f := range files {
		name := f[strings.LastIndex(f, "/")+1:]
		ids = append(ids, strings.TrimSuffix(name, "_analysis.json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// SetRating stores or overwrites the rating for a test title and keeps
// the affinity summary in sync.
func (s *Store) SetRating(ctx context.Context, profileID, title string, rating models.Rating) (*models.Analysis, error) {
	analysis, err := s.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	analysis.Ratings[title] = rating
	analysis.RebuildAffinitySummary()
	if err := s.Save(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// RemoveRating deletes the rating for a test title.
func (s *Store) RemoveRating(ctx context.Context, profileID, title string) error {
	analysis, err := s.Load(ctx, profileID)
	if err != nil {
		return err
	}
	if _, ok := analysis.Ratings[title]; !ok {
		return ErrNoRating
	}
	delete(analysis.Ratings, title)
	analysis.RebuildAffinitySummary()
	return s.Save(ctx, analysis)
}

// ClearRatings wipes all ratings, the label, and the DNA so the profile
// can be re-rated from scratch.
func (s *Store) ClearRatings(ctx context.Context, profileID string) (*models.Analysis, error) {
	analysis, err := s.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	analysis.Ratings = map[string]models.Rating{}
	analysis.ProfileLabel = ""
	analysis.ProfileDNA = []string{}
	analysis.RebuildAffinitySummary()
	if err := s.Save(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// ExportAll bundles every saved analysis keyed by profile id.
func (s *Store) ExportAll(ctx context.Context) (map[string]*models.Analysis, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	bundle := make(map[string]*models.Analysis, len(ids))
	for _, id := range ids {
		analysis, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		bundle[id] = analysis
	}
	return bundle, nil
}

// Orphans maps profile ids to rated test titles that no longer exist in
// the prompt collection.
func (s *Store) Orphans(ctx context.Context, validTitles map[string]bool) (map[string][]string, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	orphans := map[string][]string{}
	for _, id := range ids {
		analysis, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		var titles []string
		for title := range analysis.Ratings {
			if !validTitles[title] {
				titles = append(titles, title)
			}
		}
		if len(titles) > 0 {
			sort.Strings(titles)
			orphans[id] = titles
		}
	}
	return orphans, nil
}

// CleanupOrphans removes orphaned ratings across all profiles and rebuilds
// each affected affinity summary. Returns the number of ratings removed.
func (s *Store) CleanupOrphans(ctx context.Context, validTitles map[string]bool) (int, error) {
	orphans, err := s.Orphans(ctx, validTitles)
	if err != nil {
		return 0, err
	}

	removed := 0
	for id, titles := range orphans {
		analysis, err := s.Load(ctx, id)
		if err != nil {
			return removed, err
		}
		for _, title := range titles {
			delete(analysis.Ratings, title)
			removed++
		}
		analysis.RebuildAffinitySummary()
		if err := s.Save(ctx, analysis); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
