package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
)

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{Name: "Awa", Email: "awa@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.CreateUser(ctx, models.User{Email: "awa@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := s.FindUserByEmail(ctx, "awa@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBatchesAreOwnerScopedAndNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateBatch(ctx, models.Batch{UserID: "u1", BatchID: "A", Status: models.BatchStatusActive})
	require.NoError(t, err)
	second, err := s.CreateBatch(ctx, models.Batch{UserID: "u1", BatchID: "B", Status: "harvested"})
	require.NoError(t, err)
	_, err = s.CreateBatch(ctx, models.Batch{UserID: "u2", BatchID: "C", Status: models.BatchStatusActive})
	require.NoError(t, err)

	list, err := s.ListBatches(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	active, err := s.ListActiveBatches(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].BatchID)

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, owners)

	_, err = s.FindBatch(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBatch(ctx, "u2", first.ID), repository.ErrNotFound)
	assert.NoError(t, s.DeleteBatch(ctx, "u1", first.ID))
}

func TestSectionRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec, err := s.CreateSectionRecord(ctx, models.SectionRecord{UserID: "u1", Section: models.SectionQuarantine, Reason: "spots"})
	require.NoError(t, err)

	list, err := s.ListSectionRecords(ctx, models.SectionQuarantine, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := s.ListSectionRecords(ctx, models.SectionHatchery, "u1")
	require.NoError(t, err)
	assert.Empty(t, other)

	assert.ErrorIs(t, s.DeleteSectionRecord(ctx, models.SectionHatchery, "u1", rec.ID), repository.ErrNotFound)
	assert.NoError(t, s.DeleteSectionRecord(ctx, models.SectionQuarantine, "u1", rec.ID))
}

func TestSettingsAndFeedPlans(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetSettings(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.UpsertSettings(ctx, models.FarmSettings{UserID: "u1", FarmName: "Lake"}))
	got, err := s.GetSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Lake", got.FarmName)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, s.SaveFeedPlan(ctx, models.FeedPlan{UserID: "u1"}))
	plans := s.FeedPlans()
	require.Len(t, plans, 1)
	assert.False(t, plans[0].CreatedAt.IsZero())
}
