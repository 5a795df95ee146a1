package planning

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
	"github.com/mamadbah2/fishfarm/internal/repository/memory"
)

type stubExporter struct {
	plans []models.FeedPlan
	err   error
}

func (s *stubExporter) ExportFeedPlan(_ context.Context, plan models.FeedPlan) error {
	s.plans = append(s.plans, plan)
	return s.err
}

func seed(t *testing.T, store *memory.Store, batches ...models.Batch) []models.Batch {
	t.Helper()
	out := make([]models.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Status == "" {
			b.Status = models.BatchStatusActive
		}
		created, err := store.CreateBatch(context.Background(), b)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestAdviseBatch(t *testing.T) {
	store := memory.New()
	batches := seed(t, store, models.Batch{
		UserID: "u1", BatchID: "B-1", Quantity: 1000, FarmingSystem: "intensive",
		AvgWeightGrams: 500, VolumeM3: 10,
	})
	svc := NewService(store, nil, 2, nil)

	advice, err := svc.AdviseBatch(context.Background(), "u1", batches[0].ID, 0)
	require.NoError(t, err)
	require.NotNil(t, advice.Feed)
	require.NotNil(t, advice.Density)
	require.NotNil(t, advice.Cost)
	assert.InDelta(t, 15.0, advice.Feed.Daily, 1e-9)
	assert.Equal(t, advisory.StatusOptimal, advice.Density.Status)
	assert.InDelta(t, 1215.0, advice.Cost.Total.Monthly, 1e-9)

	_, err = svc.AdviseBatch(context.Background(), "u2", batches[0].ID, 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.AdviseBatch(context.Background(), "u1", batches[0].ID, -1)
	assert.ErrorIs(t, err, advisory.ErrInvalidArgument)
}

func TestBuildFeedPlan(t *testing.T) {
	store := memory.New()
	seed(t, store,
		models.Batch{UserID: "u1", BatchID: "A", Species: "tilapia", Quantity: 1000, FarmingSystem: "intensive", AvgWeightGrams: 500},
		models.Batch{UserID: "u1", BatchID: "B", Species: "catfish", Quantity: 2000, FarmingSystem: "extensive", AvgWeightGrams: 100},
		models.Batch{UserID: "u1", BatchID: "C", Species: "carp", Quantity: 500, FarmingSystem: "semi-intensive"},
		models.Batch{UserID: "u1", BatchID: "D", Quantity: 500, AvgWeightGrams: 100, Status: "harvested"},
		models.Batch{UserID: "u2", BatchID: "E", Quantity: 500, AvgWeightGrams: 100},
	)
	svc := NewService(store, nil, 1.5, nil)

	day := time.Date(2024, 7, 9, 17, 45, 0, 0, time.UTC)
	plan, err := svc.BuildFeedPlan(context.Background(), "u1", day, 2)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC), plan.Date)
	assert.Equal(t, 2.0, plan.FeedPricePerKg)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, []string{"C"}, plan.Skipped)

	byID := map[string]models.FeedPlanLine{}
	for _, l := range plan.Lines {
		byID[l.BatchID] = l
	}
	// 1000 fish x 500 g x 3% = 15 kg
	assert.InDelta(t, 15.0, byID["A"].DailyFeedKg, 1e-9)
	// 2000 fish x 100 g x 1.5% = 3 kg
	assert.InDelta(t, 3.0, byID["B"].DailyFeedKg, 1e-9)
	assert.InDelta(t, 18.0, plan.TotalDailyFeedKg, 1e-9)

	costA, err := advisory.EstimateCostWithWeight(advisory.Intensive, 1000, 2, 500)
	require.NoError(t, err)
	costB, err := advisory.EstimateCostWithWeight(advisory.Extensive, 2000, 2, 100)
	require.NoError(t, err)
	assert.InDelta(t, costA.Total.Monthly+costB.Total.Monthly, plan.TotalMonthlyCost, 0.011)
}

func TestBuildFeedPlanUsesDefaultPrice(t *testing.T) {
	store := memory.New()
	seed(t, store, models.Batch{UserID: "u1", BatchID: "A", Quantity: 100, AvgWeightGrams: 100})
	svc := NewService(store, nil, 0, nil)

	plan, err := svc.BuildFeedPlan(context.Background(), "u1", time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(t, advisory.DefaultFeedPricePerKg, plan.FeedPricePerKg)
	assert.Equal(t, "semi-intensive", plan.Lines[0].FarmingSystem)
}

func TestFeedPriceMustBeFiniteAndNonNegative(t *testing.T) {
	store := memory.New()
	batches := seed(t, store, models.Batch{UserID: "u1", BatchID: "A", Quantity: 100, FarmingSystem: "intensive"})
	svc := NewService(store, nil, 1.5, nil)
	ctx := context.Background()

	for name, price := range map[string]float64{
		"negative": -3,
		"nan":      math.NaN(),
		"infinite": math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			// no line carries a weight, so only the price check can fail
			_, err := svc.BuildFeedPlan(ctx, "u1", time.Now(), price)
			assert.ErrorIs(t, err, advisory.ErrInvalidArgument)

			_, err = svc.BuildFeedPlan(ctx, "nobody", time.Now(), price)
			assert.ErrorIs(t, err, advisory.ErrInvalidArgument)

			_, err = svc.AdviseBatch(ctx, "u1", batches[0].ID, price)
			assert.ErrorIs(t, err, advisory.ErrInvalidArgument)
		})
	}
}

func TestNewServiceIgnoresNonFiniteDefault(t *testing.T) {
	svc := NewService(memory.New(), nil, math.NaN(), nil)

	plan, err := svc.BuildFeedPlan(context.Background(), "u1", time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(t, advisory.DefaultFeedPricePerKg, plan.FeedPricePerKg)
}

func TestRecordFeedPlan(t *testing.T) {
	store := memory.New()
	seed(t, store, models.Batch{UserID: "u1", BatchID: "A", Quantity: 1000, FarmingSystem: "intensive", AvgWeightGrams: 500})
	exp := &stubExporter{err: errors.New("sheets offline")}
	svc := NewService(store, exp, 1.5, nil)

	plan, err := svc.RecordFeedPlan(context.Background(), "u1", time.Now())
	require.NoError(t, err)

	saved := store.FeedPlans()
	require.Len(t, saved, 1)
	assert.Equal(t, plan.TotalDailyFeedKg, saved[0].TotalDailyFeedKg)
	assert.Len(t, exp.plans, 1)
}

func TestFarmName(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil, 1.5, nil)
	ctx := context.Background()

	assert.Equal(t, models.DefaultFarmName, svc.FarmName(ctx, "u1"))

	require.NoError(t, store.UpsertSettings(ctx, models.FarmSettings{UserID: "u1", FarmName: "Blue Pond"}))
	assert.Equal(t, "Blue Pond", svc.FarmName(ctx, "u1"))
}

func TestRecipientFor(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil, 1.5, nil)
	ctx := context.Background()

	assert.Empty(t, svc.RecipientFor(ctx, "u1"))

	require.NoError(t, store.UpsertSettings(ctx, models.FarmSettings{UserID: "u1", FarmName: "Blue Pond", WhatsAppNumber: "224620000001"}))
	assert.Equal(t, "224620000001", svc.RecipientFor(ctx, "u1"))
	assert.Empty(t, svc.RecipientFor(ctx, "u2"))
}

func TestFormatFeedPlan(t *testing.T) {
	plan := models.FeedPlan{
		Date:           time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC),
		FeedPricePerKg: 1.5,
		Lines: []models.FeedPlanLine{
			{BatchID: "A", Species: "tilapia", FarmingSystem: "intensive", Quantity: 1000, DailyFeedKg: 15},
		},
		Skipped:          []string{"C", "F"},
		TotalDailyFeedKg: 15,
		TotalMonthlyCost: 911.25,
	}

	text := FormatFeedPlan(plan, "Blue Pond")
	assert.Contains(t, text, "Blue Pond feed plan (2024-07-09)")
	assert.Contains(t, text, "- A tilapia (intensive): 15.00 kg today, 1000 fish")
	assert.Contains(t, text, "Total: 15.00 kg today. Estimated monthly cost 911.25 at 1.50/kg.")
	assert.Contains(t, text, "Missing average weight: C, F.")

	empty := FormatFeedPlan(models.FeedPlan{Date: plan.Date}, "Blue Pond")
	assert.Contains(t, empty, "No active batch")
	assert.NotContains(t, empty, "Total:")
}
