package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solefield/profile-tester/internal/config"
	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(storage.NewLocal(t.TempDir()))
}

func nativeRating(score int) models.Rating {
	return models.Rating{
		Affinity:   models.AffinityNativeFit,
		Score:      score,
		Confidence: 0.9,
		Commentary: "strong match",
	}
}

func TestLoadFreshProfile(t *testing.T) {
	s := newTestStore(t)

	analysis, err := s.Load(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", analysis.ProfileID)
	assert.Empty(t, analysis.ProfileLabel)
	assert.Empty(t, analysis.ProfileDNA)
	assert.Empty(t, analysis.Ratings)
}

func TestSaveStampsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	analysis, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, analysis))

	loaded, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, config.AnalysisVersion, loaded.AnalysisVersion)
}

func TestSetRatingRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SetRating(ctx, "p1", "Noir Alley", nativeRating(8))
	require.NoError(t, err)

	loaded, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, nativeRating(8), loaded.Ratings["Noir Alley"])
	assert.Equal(t, []string{"Noir Alley"}, loaded.AffinitySummary.NativeFit)

	t.Run("overwrite on re-rating", func(t *testing.T) {
		resistant := models.Rating{Affinity: models.AffinityResistant, Score: 3, Confidence: 0.7}
		_, err := s.SetRating(ctx, "p1", "Noir Alley", resistant)
		require.NoError(t, err)

		loaded, err := s.Load(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, resistant, loaded.Ratings["Noir Alley"])
		assert.Empty(t, loaded.AffinitySummary.NativeFit)
		assert.Equal(t, []string{"Noir Alley"}, loaded.AffinitySummary.Resistant)
	})
}

func TestRemoveRating(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SetRating(ctx, "p1", "Noir Alley", nativeRating(8))
	require.NoError(t, err)

	require.NoError(t, s.RemoveRating(ctx, "p1", "Noir Alley"))

	loaded, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Ratings)
	assert.Empty(t, loaded.AffinitySummary.NativeFit)

	assert.ErrorIs(t, s.RemoveRating(ctx, "p1", "Noir Alley"), ErrNoRating)
}

func TestClearRatings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	analysis, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	analysis.ProfileLabel = "Moody Urban Explorer"
	analysis.ProfileDNA = []string{"prefers warm tones"}
	analysis.Ratings["Noir Alley"] = nativeRating(9)
	analysis.RebuildAffinitySummary()
	require.NoError(t, s.Save(ctx, analysis))

	cleared, err := s.ClearRatings(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Ratings)
	assert.Empty(t, cleared.ProfileLabel)
	assert.Empty(t, cleared.ProfileDNA)
	assert.Empty(t, cleared.AffinitySummary.NativeFit)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, id := range []string{"zeta", "alpha"} {
		analysis, err := s.Load(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.Save(ctx, analysis))
	}

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, ids)
}

func TestExportAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SetRating(ctx, "p1", "Noir Alley", nativeRating(8))
	require.NoError(t, err)
	_, err = s.SetRating(ctx, "p2", "Flat Vector Fox", nativeRating(7))
	require.NoError(t, err)

	bundle, err := s.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, bundle, 2)
	assert.Contains(t, bundle["p1"].Ratings, "Noir Alley")
	assert.Contains(t, bundle["p2"].Ratings, "Flat Vector Fox")
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SetRating(ctx, "p1", "Noir Alley", nativeRating(8))
	require.NoError(t, err)
	_, err = s.SetRating(ctx, "p1", "Removed Test", nativeRating(5))
	require.NoError(t, err)
	_, err = s.SetRating(ctx, "p2", "Removed Test", nativeRating(4))
	require.NoError(t, err)

	valid := map[string]bool{"Noir Alley": true}

	orphans, err := s.Orphans(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"p1": {"Removed Test"},
		"p2": {"Removed Test"},
	}, orphans)

	removed, err := s.CleanupOrphans(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	p1, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.NotContains(t, p1.Ratings, "Removed Test")
	assert.Equal(t, []string{"Noir Alley"}, p1.AffinitySummary.NativeFit)

	orphans, err = s.Orphans(ctx, valid)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}
