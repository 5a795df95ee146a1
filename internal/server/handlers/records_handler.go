package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/service/records"
)

// RecordsService is the record keeping API used by RecordsHandler.
type RecordsService interface {
	GetSettings(ctx context.Context, userID string) (models.FarmSettings, error)
	UpdateSettings(ctx context.Context, userID string, update records.SettingsUpdate) (models.FarmSettings, error)

	ListBatches(ctx context.Context, userID string) ([]models.Batch, error)
	CreateBatch(ctx context.Context, userID string, in records.NewBatch) (models.Batch, error)
	DeleteBatch(ctx context.Context, userID, id string) error
	BatchReport(ctx context.Context, userID string, filter records.BatchReportFilter) (records.BatchReport, error)

	ListSectionRecords(ctx context.Context, userID, section string) ([]models.SectionRecord, error)
	CreateSectionRecord(ctx context.Context, userID, section string, record models.SectionRecord) (models.SectionRecord, error)
	DeleteSectionRecord(ctx context.Context, userID, section, id string) error
}

// RecordsHandler serves settings, batches and section journals.
type RecordsHandler struct {
	svc    RecordsService
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP adapter for farm records.
func NewRecordsHandler(svc RecordsService, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{svc: svc, logger: orNop(logger)}
}

// GetSettings returns the caller's farm settings.
func (h *RecordsHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "Settings not found")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the caller's farm settings.
func (h *RecordsHandler) UpdateSettings(c *gin.Context) {
	var req records.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	if _, err := h.svc.UpdateSettings(c.Request.Context(), CurrentUser(c), req); err != nil {
		respondError(c, h.logger, err, "Settings not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

// ListBatches returns the caller's batches, newest first.
func (h *RecordsHandler) ListBatches(c *gin.Context) {
	batches, err := h.svc.ListBatches(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err, "Batch not found")
		return
	}
	c.JSON(http.StatusOK, batches)
}

// CreateBatch stores a new batch.
func (h *RecordsHandler) CreateBatch(c *gin.Context) {
	var req records.NewBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	batch, err := h.svc.CreateBatch(c.Request.Context(), CurrentUser(c), req)
	if err != nil {
		respondError(c, h.logger, err, "Batch not found")
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// DeleteBatch removes one of the caller's batches.
func (h *RecordsHandler) DeleteBatch(c *gin.Context) {
	if err := h.svc.DeleteBatch(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Batch not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Batch deleted successfully"})
}

// BatchReport summarizes the caller's batches matching the query filters.
// With format=text the rendered report is sent as a plain text download.
func (h *RecordsHandler) BatchReport(c *gin.Context) {
	var filter records.BatchReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, h.logger, "invalid report filters", err)
		return
	}

	report, err := h.svc.BatchReport(c.Request.Context(), CurrentUser(c), filter)
	if err != nil {
		respondError(c, h.logger, err, "Batch not found")
		return
	}

	if c.Query("format") == "text" {
		c.Header("Content-Disposition", `attachment; filename="batch-report.txt"`)
		c.String(http.StatusOK, report.Text)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListSectionRecords returns the journal of one section.
func (h *RecordsHandler) ListSectionRecords(c *gin.Context) {
	list, err := h.svc.ListSectionRecords(c.Request.Context(), CurrentUser(c), c.Param("section"))
	if err != nil {
		respondError(c, h.logger, err, "Record not found")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateSectionRecord appends an entry to a section journal.
func (h *RecordsHandler) CreateSectionRecord(c *gin.Context) {
	var req models.SectionRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	created, err := h.svc.CreateSectionRecord(c.Request.Context(), CurrentUser(c), c.Param("section"), req)
	if err != nil {
		respondError(c, h.logger, err, "Record not found")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteSectionRecord removes an entry from a section journal.
func (h *RecordsHandler) DeleteSectionRecord(c *gin.Context) {
	if err := h.svc.DeleteSectionRecord(c.Request.Context(), CurrentUser(c), c.Param("section"), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Record not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
