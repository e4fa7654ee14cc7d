package prompts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solefield/profile-tester/internal/models"
	"github.com/solefield/profile-tester/internal/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storage.NewLocal(t.TempDir()))
}

func TestLoadEmpty(t *testing.T) {
	m := newTestManager(t)

	tests, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, tests)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	test, err := m.Add(ctx, "Alpine Stream / Dawn", "a mountain stream at dawn", "Landscapes", "--chaos 20", "")
	require.NoError(t, err)

	assert.Equal(t, "Alpine_Stream___Dawn", test.ID)
	assert.Equal(t, models.StatusCurrent, test.Status)
	assert.Equal(t, "v2", test.Version)
	assert.Equal(t, time.Now().Format("2006-01-02"), test.CreatedDate)

	loaded, err := m.Load(ctx, "")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, *test, loaded[0])
}

func TestAddRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)

	t.Run("same title", func(t *testing.T) {
		_, err := m.Add(ctx, "Noir Alley", "another alley", "Mood", "", "")
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("different title, same slug", func(t *testing.T) {
		_, err := m.Add(ctx, "Noir/Alley", "slash variant", "Mood", "", "")
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	all, err := m.Load(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddRequiresTitle(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Add(context.Background(), "", "prompt", "", "", "")
	assert.Error(t, err)
}

func TestStatusFilter(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)
	_, err = m.Add(ctx, "Flat Vector Fox", "a flat vector fox", "Illustration", "", "")
	require.NoError(t, err)
	require.NoError(t, m.Archive(ctx, "Noir_Alley"))

	current, err := m.Load(ctx, models.StatusCurrent)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "Flat Vector Fox", current[0].Title)

	archived, err := m.Load(ctx, models.StatusArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "Noir Alley", archived[0].Title)

	all, err := m.Load(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)

	t.Run("partial update", func(t *testing.T) {
		prompt := "a rain-soaked noir alley"
		updated, err := m.Update(ctx, "Noir_Alley", Update{Prompt: &prompt})
		require.NoError(t, err)
		assert.Equal(t, "a rain-soaked noir alley", updated.Prompt)
		assert.Equal(t, "Noir Alley", updated.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := m.Update(ctx, "nope", Update{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)

	require.NoError(t, m.Archive(ctx, "Noir_Alley"))

	all, err := m.Load(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusArchived, all[0].Status)
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "--stylize 200", "")
	require.NoError(t, err)

	dup, err := m.Duplicate(ctx, "Noir_Alley", "v3")
	require.NoError(t, err)

	assert.Equal(t, "Noir_Alley_copy", dup.ID)
	assert.Equal(t, "Noir Alley (Copy)", dup.Title)
	assert.Equal(t, "v3", dup.Version)
	assert.Equal(t, "a noir alley", dup.Prompt)
	assert.Equal(t, "--stylize 200", dup.Params)

	all, err := m.Load(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = m.Duplicate(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Duplicate(ctx, "Noir_Alley", "")
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "Noir_Alley"))

	all, err := m.Load(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, m.Delete(ctx, "Noir_Alley"), ErrNotFound)
}

func TestGetByTitle(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Add(ctx, "Noir Alley", "a noir alley", "Mood", "", "")
	require.NoError(t, err)

	test, err := m.GetByTitle(ctx, "Noir Alley")
	require.NoError(t, err)
	assert.Equal(t, "Noir_Alley", test.ID)

	_, err = m.GetByTitle(ctx, "Unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
