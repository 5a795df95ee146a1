package planning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
)

const dateLayout = "2006-01-02"

// Store is the persistence the planning service needs.
type Store interface {
	FindBatch(ctx context.Context, userID, id string) (models.Batch, error)
	ListActiveBatches(ctx context.Context, userID string) ([]models.Batch, error)
	GetSettings(ctx context.Context, userID string) (models.FarmSettings, error)
	SaveFeedPlan(ctx context.Context, plan models.FeedPlan) error
}

// PlanExporter mirrors feed plans to an external sheet.
type PlanExporter interface {
	ExportFeedPlan(ctx context.Context, plan models.FeedPlan) error
}

// Service turns stored batches into feeding and cost guidance.
type Service struct {
	store        Store
	exporter     PlanExporter
	defaultPrice float64
	logger       *zap.Logger
}

// NewService wires a new planning service instance. exporter may be nil.
func NewService(store Store, exporter PlanExporter, defaultPrice float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if math.IsNaN(defaultPrice) || math.IsInf(defaultPrice, 0) || defaultPrice <= 0 {
		defaultPrice = advisory.DefaultFeedPricePerKg
	}
	return &Service{store: store, exporter: exporter, defaultPrice: defaultPrice, logger: logger}
}

// AdviseBatch returns the advisory bundle for one of the user's batches.
// A zero price means the configured default.
func (s *Service) AdviseBatch(ctx context.Context, userID, id string, feedPricePerKg float64) (advisory.Advice, error) {
	price, err := s.price(feedPricePerKg)
	if err != nil {
		return advisory.Advice{}, err
	}

	batch, err := s.store.FindBatch(ctx, userID, id)
	if err != nil {
		return advisory.Advice{}, err
	}

	return advisory.Advise(advisory.BatchFigures{
		System:         advisory.SystemID(batch.FarmingSystem),
		Quantity:       batch.Quantity,
		AvgWeightGrams: batch.AvgWeightGrams,
		VolumeM3:       batch.VolumeM3,
		FeedPricePerKg: price,
	})
}

// BuildFeedPlan computes the day's ration for every active batch with a
// known average weight. Batches without one are listed in Skipped.
func (s *Service) BuildFeedPlan(ctx context.Context, userID string, day time.Time, feedPricePerKg float64) (models.FeedPlan, error) {
	price, err := s.price(feedPricePerKg)
	if err != nil {
		return models.FeedPlan{}, err
	}

	batches, err := s.store.ListActiveBatches(ctx, userID)
	if err != nil {
		return models.FeedPlan{}, fmt.Errorf("load active batches: %w", err)
	}

	plan := models.FeedPlan{
		UserID:         userID,
		Date:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
		FeedPricePerKg: price,
		Lines:          make([]models.FeedPlanLine, 0, len(batches)),
	}

	var totalFeed, totalCost float64
	for _, batch := range batches {
		if batch.AvgWeightGrams <= 0 {
			plan.Skipped = append(plan.Skipped, batch.BatchID)
			continue
		}

		system := advisory.SystemID(batch.FarmingSystem)
		feed, err := advisory.ComputeFeed(batch.Quantity, batch.AvgWeightGrams, system)
		if err != nil {
			s.logger.Debug("skip batch with invalid figures", zap.String("batch_id", batch.BatchID), zap.Error(err))
			plan.Skipped = append(plan.Skipped, batch.BatchID)
			continue
		}
		cost, err := advisory.EstimateCostWithWeight(system, batch.Quantity, price, batch.AvgWeightGrams)
		if err != nil {
			return models.FeedPlan{}, fmt.Errorf("estimate cost for %s: %w", batch.BatchID, err)
		}

		plan.Lines = append(plan.Lines, models.FeedPlanLine{
			BatchID:       batch.BatchID,
			Species:       batch.Species,
			FarmingSystem: string(advisory.Lookup(system).ID),
			Quantity:      batch.Quantity,
			DailyFeedKg:   feed.Daily,
			WeeklyFeedKg:  feed.Weekly,
			MonthlyCost:   cost.Total.Monthly,
		})
		totalFeed += feed.Daily
		totalCost += cost.Total.Monthly
	}

	plan.TotalDailyFeedKg = math.Round(totalFeed*100) / 100
	plan.TotalMonthlyCost = math.Round(totalCost*100) / 100
	return plan, nil
}

// RecordFeedPlan builds the plan, stores it and exports it. Export failures
// are logged only.
func (s *Service) RecordFeedPlan(ctx context.Context, userID string, day time.Time) (models.FeedPlan, error) {
	plan, err := s.BuildFeedPlan(ctx, userID, day, 0)
	if err != nil {
		return models.FeedPlan{}, err
	}

	if err := s.store.SaveFeedPlan(ctx, plan); err != nil {
		return models.FeedPlan{}, fmt.Errorf("save feed plan: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportFeedPlan(ctx, plan); err != nil {
			s.logger.Warn("feed plan export failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("feed plan recorded",
		zap.String("user_id", userID),
		zap.Int("lines", len(plan.Lines)),
		zap.Float64("total_daily_feed_kg", plan.TotalDailyFeedKg))
	return plan, nil
}

// FarmName returns the display name of the user's farm.
func (s *Service) FarmName(ctx context.Context, userID string) string {
	settings := s.settings(ctx, userID)
	if settings.FarmName == "" {
		return models.DefaultFarmName
	}
	return settings.FarmName
}

// RecipientFor returns the WhatsApp number the user wants the daily digest
// sent to, or "" when none is set.
func (s *Service) RecipientFor(ctx context.Context, userID string) string {
	return s.settings(ctx, userID).WhatsAppNumber
}

func (s *Service) settings(ctx context.Context, userID string) models.FarmSettings {
	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("settings lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return models.DefaultSettings(userID)
	}
	return settings
}

// FormatFeedPlan renders a plan as a short text digest.
func FormatFeedPlan(plan models.FeedPlan, farmName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s feed plan (%s)\n", farmName, plan.Date.Format(dateLayout))

	if len(plan.Lines) == 0 {
		b.WriteString("No active batch with a recorded average weight.")
	}
	for _, line := range plan.Lines {
		fmt.Fprintf(&b, "- %s %s (%s): %.2f kg today, %d fish\n",
			line.BatchID, line.Species, line.FarmingSystem, line.DailyFeedKg, line.Quantity)
	}
	if len(plan.Lines) > 0 {
		fmt.Fprintf(&b, "Total: %.2f kg today. Estimated monthly cost %.2f at %.2f/kg.",
			plan.TotalDailyFeedKg, plan.TotalMonthlyCost, plan.FeedPricePerKg)
	}
	if len(plan.Skipped) > 0 {
		fmt.Fprintf(&b, "\nMissing average weight: %s.", strings.Join(plan.Skipped, ", "))
	}

	return b.String()
}

func (s *Service) price(p float64) (float64, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, fmt.Errorf("%w: feed price must be a finite non-negative number", advisory.ErrInvalidArgument)
	}
	if p == 0 {
		return s.defaultPrice, nil
	}
	return p, nil
}
