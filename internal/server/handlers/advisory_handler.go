package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
)

// Planner is the planning API used by AdvisoryHandler.
type Planner interface {
	AdviseBatch(ctx context.Context, userID, id string, feedPricePerKg float64) (advisory.Advice, error)
	BuildFeedPlan(ctx context.Context, userID string, day time.Time, feedPricePerKg float64) (models.FeedPlan, error)
}

// AdvisoryHandler exposes the farming system calculators and batch advice.
type AdvisoryHandler struct {
	planner      Planner
	defaultPrice float64
	location     *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewAdvisoryHandler constructs the advisory HTTP adapter. Feed plans are
// dated in loc.
func NewAdvisoryHandler(planner Planner, defaultPrice float64, loc *time.Location, logger *zap.Logger) *AdvisoryHandler {
	if math.IsNaN(defaultPrice) || math.IsInf(defaultPrice, 0) || defaultPrice <= 0 {
		defaultPrice = advisory.DefaultFeedPricePerKg
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AdvisoryHandler{
		planner:      planner,
		defaultPrice: defaultPrice,
		location:     loc,
		now:          time.Now,
		logger:       orNop(logger),
	}
}

type feedRequest struct {
	Quantity    int     `json:"quantity"`
	AvgWeight   float64 `json:"avgWeight"`
	FeedPercent float64 `json:"feedPercent"`
}

type densityRequest struct {
	Quantity  int     `json:"quantity"`
	AvgWeight float64 `json:"avgWeight"`
	Volume    float64 `json:"volume"`
}

type costRequest struct {
	Quantity  int     `json:"quantity"`
	FeedPrice float64 `json:"feedPrice"`
	AvgWeight float64 `json:"avgWeight"`
}

// ListSystems returns every farming system profile.
func (h *AdvisoryHandler) ListSystems(c *gin.Context) {
	c.JSON(http.StatusOK, advisory.Profiles())
}

// GetSystem returns one profile with its display recommendations.
func (h *AdvisoryHandler) GetSystem(c *gin.Context) {
	id, ok := h.system(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":         advisory.Lookup(id),
		"recommendations": advisory.Recommendations(id),
	})
}

// Growth returns the expected growth rate of a system.
func (h *AdvisoryHandler) Growth(c *gin.Context) {
	id, ok := h.system(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, advisory.GrowthRateFor(id))
}

// Feed computes a feed schedule.
func (h *AdvisoryHandler) Feed(c *gin.Context) {
	id, ok := h.system(c)
	if !ok {
		return
	}
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	feed, err := advisory.ComputeFeedWithPercent(req.Quantity, req.AvgWeight, id, req.FeedPercent)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Density evaluates a stocking density.
func (h *AdvisoryHandler) Density(c *gin.Context) {
	id, ok := h.system(c)
	if !ok {
		return
	}
	var req densityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	density, err := advisory.ComputeDensity(req.Quantity, req.AvgWeight, req.Volume, id)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, density)
}

// Cost estimates production cost. Missing price and weight fall back to the
// configured price and the assumed average weight.
func (h *AdvisoryHandler) Cost(c *gin.Context) {
	id, ok := h.system(c)
	if !ok {
		return
	}
	var req costRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body", err)
		return
	}

	price := req.FeedPrice
	if price == 0 {
		price = h.defaultPrice
	}
	weight := req.AvgWeight
	if weight == 0 {
		weight = advisory.AssumedAvgWeightGrams
	}

	cost, err := advisory.EstimateCostWithWeight(id, req.Quantity, price, weight)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, cost)
}

// BatchAdvice returns the advisory bundle of one of the caller's batches.
func (h *AdvisoryHandler) BatchAdvice(c *gin.Context) {
	price, ok := h.feedPrice(c)
	if !ok {
		return
	}

	advice, err := h.planner.AdviseBatch(c.Request.Context(), CurrentUser(c), c.Param("id"), price)
	if err != nil {
		respondError(c, h.logger, err, "Batch not found")
		return
	}
	c.JSON(http.StatusOK, advice)
}

// FeedPlan returns today's feed plan of the caller without storing it.
func (h *AdvisoryHandler) FeedPlan(c *gin.Context) {
	price, ok := h.feedPrice(c)
	if !ok {
		return
	}

	plan, err := h.planner.BuildFeedPlan(c.Request.Context(), CurrentUser(c), h.now().In(h.location), price)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *AdvisoryHandler) system(c *gin.Context) (advisory.SystemID, bool) {
	id, ok := advisory.ParseSystem(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Farming system not found"})
		return "", false
	}
	return id, true
}

// feedPrice reads the optional feedPrice query parameter; absent means 0.
// Only finite non-negative prices are accepted.
func (h *AdvisoryHandler) feedPrice(c *gin.Context) (float64, bool) {
	raw := c.Query("feedPrice")
	if raw == "" {
		return 0, true
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err == nil && (math.IsNaN(price) || math.IsInf(price, 0) || price < 0) {
		err = errors.New("feedPrice must be a finite non-negative number")
	}
	if err != nil {
		badRequest(c, h.logger, fmt.Sprintf("invalid feedPrice %q", raw), err)
		return 0, false
	}
	return price, true
}
