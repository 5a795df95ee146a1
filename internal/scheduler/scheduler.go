package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/config"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/service/notify"
	"github.com/mamadbah2/fishfarm/internal/service/planning"
)

const runTimeout = 2 * time.Minute

// OwnerLister returns the users that own at least one active batch.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
}

// FeedPlanner is the part of the planning service the daily job needs.
type FeedPlanner interface {
	RecordFeedPlan(ctx context.Context, userID string, day time.Time) (models.FeedPlan, error)
	FarmName(ctx context.Context, userID string) string
	RecipientFor(ctx context.Context, userID string) string
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	location *time.Location
	owners   OwnerLister
	planner  FeedPlanner
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running the daily feed plan job in the
// configured timezone.
func NewScheduler(cfg config.ReportingConfig, owners OwnerLister, planner FeedPlanner, notifier notify.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		location: loc,
		owners:   owners,
		planner:  planner,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyFeedPlans); err != nil {
		return fmt.Errorf("schedule feed plans %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyFeedPlans() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("daily feed plan run failed", zap.Error(err))
	}
}

// RunOnce records today's feed plan for every owner and sends each digest to
// that owner's own WhatsApp number. Owners without a number are skipped. A
// failure for one owner is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	today := s.now().In(s.location)
	s.logger.Info("generating feed plans", zap.Int("owners", len(owners)))

	sent := 0
	for _, userID := range owners {
		plan, err := s.planner.RecordFeedPlan(ctx, userID, today)
		if err != nil {
			s.logger.Error("failed to record feed plan", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		if s.notifier == nil {
			continue
		}
		recipient := s.planner.RecipientFor(ctx, userID)
		if recipient == "" {
			s.logger.Debug("no whatsapp number, digest skipped", zap.String("user_id", userID))
			continue
		}

		req := models.OutboundMessageRequest{
			To:      recipient,
			Message: planning.FormatFeedPlan(plan, s.planner.FarmName(ctx, userID)),
		}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send feed plan", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("feed plans done", zap.Int("owners", len(owners)), zap.Int("sent", sent))
	return nil
}
