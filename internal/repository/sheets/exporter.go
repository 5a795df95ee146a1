package sheets

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
)

const (
	batchesRange   = "Batches!A:I"
	batchesHeader  = "Batches!A1:I1"
	feedPlanRange  = "FeedPlan!A:G"
	feedPlanHeader = "FeedPlan!A1:G1"
	dateLayout     = "2006-01-02"
)

var (
	batchColumns    = []interface{}{"Created", "Batch", "Section", "Species", "Quantity", "Farming System", "Start Date", "Status", "Notes"}
	feedPlanColumns = []interface{}{"Date", "Batch", "Species", "Farming System", "Quantity", "Daily Feed (kg)", "Monthly Cost"}
)

// Exporter mirrors farm records into a spreadsheet for the farm office.
type Exporter struct {
	repo   Repository
	logger *zap.Logger

	mu     sync.Mutex
	headed map[string]bool
}

// NewExporter wraps a sheet repository.
func NewExporter(repo Repository, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{repo: repo, logger: logger, headed: map[string]bool{}}
}

// ensureHeader writes the column titles when the tab is still empty. It
// checks each tab once per process.
func (e *Exporter) ensureHeader(ctx context.Context, headerRange, dataRange string, columns []interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.headed[dataRange] {
		return nil
	}

	existing, err := e.repo.ReadRange(ctx, headerRange)
	if err != nil {
		return fmt.Errorf("read header %s: %w", headerRange, err)
	}
	if len(existing) == 0 {
		if err := e.repo.WriteRows(ctx, dataRange, [][]interface{}{columns}); err != nil {
			return fmt.Errorf("write header %s: %w", headerRange, err)
		}
		e.logger.Info("sheet header written", zap.String("range", dataRange))
	}

	e.headed[dataRange] = true
	return nil
}

// ExportBatch appends one row describing a newly registered batch.
func (e *Exporter) ExportBatch(ctx context.Context, batch models.Batch) error {
	if err := e.ensureHeader(ctx, batchesHeader, batchesRange, batchColumns); err != nil {
		return err
	}

	row := []interface{}{
		batch.CreatedAt.Format(dateLayout),
		batch.BatchID,
		batch.Section,
		batch.Species,
		batch.Quantity,
		batch.FarmingSystem,
		batch.StartDate,
		batch.Status,
		batch.Notes,
	}
	if err := e.repo.WriteRows(ctx, batchesRange, [][]interface{}{row}); err != nil {
		return fmt.Errorf("export batch %s: %w", batch.BatchID, err)
	}
	return nil
}

// ExportFeedPlan appends one row per plan line.
func (e *Exporter) ExportFeedPlan(ctx context.Context, plan models.FeedPlan) error {
	if len(plan.Lines) == 0 {
		e.logger.Debug("feed plan has no lines, nothing to export")
		return nil
	}

	if err := e.ensureHeader(ctx, feedPlanHeader, feedPlanRange, feedPlanColumns); err != nil {
		return err
	}

	date := plan.Date.Format(dateLayout)
	rows := make([][]interface{}, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		rows = append(rows, []interface{}{
			date,
			line.BatchID,
			line.Species,
			line.FarmingSystem,
			line.Quantity,
			line.DailyFeedKg,
			line.MonthlyCost,
		})
	}

	if err := e.repo.WriteRows(ctx, feedPlanRange, rows); err != nil {
		return fmt.Errorf("export feed plan %s: %w", date, err)
	}
	return nil
}
