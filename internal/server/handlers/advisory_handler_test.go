package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fishfarm/internal/domain/advisory"
	"github.com/mamadbah2/fishfarm/internal/domain/models"
)

type stubPlanner struct {
	gotPrice float64
	gotDay   time.Time
	err      error
}

func (p *stubPlanner) AdviseBatch(_ context.Context, _, _ string, price float64) (advisory.Advice, error) {
	p.gotPrice = price
	return advisory.Advice{System: advisory.Intensive}, p.err
}

func (p *stubPlanner) BuildFeedPlan(_ context.Context, _ string, day time.Time, price float64) (models.FeedPlan, error) {
	p.gotDay = day
	p.gotPrice = price
	return models.FeedPlan{Date: day, FeedPricePerKg: price}, p.err
}

func serve(t *testing.T, method, path, route string, h gin.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		c.Set(UserIDKey, "u1")
		h(c)
	})

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCostUsesConfiguredDefaults(t *testing.T) {
	h := NewAdvisoryHandler(&stubPlanner{}, 2, nil, nil)

	w := serve(t, http.MethodPost, "/fs/intensive/cost", "/fs/:id/cost", h.Cost, map[string]any{"quantity": 1000})
	require.Equal(t, http.StatusOK, w.Code)

	var got advisory.Cost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	want, err := advisory.EstimateCost(advisory.Intensive, 1000, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCostRejectsNegativePrice(t *testing.T) {
	h := NewAdvisoryHandler(&stubPlanner{}, 2, nil, nil)
	w := serve(t, http.MethodPost, "/fs/extensive/cost", "/fs/:id/cost", h.Cost, map[string]any{"quantity": 10, "feedPrice": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDensityAndGrowth(t *testing.T) {
	h := NewAdvisoryHandler(&stubPlanner{}, 0, nil, nil)

	w := serve(t, http.MethodPost, "/fs/semi-intensive/density", "/fs/:id/density", h.Density,
		map[string]any{"quantity": 100, "avgWeight": 100, "volume": 0})
	require.Equal(t, http.StatusOK, w.Code)
	var d advisory.Density
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, advisory.StatusLow, d.Status)
	assert.Zero(t, d.Current)

	w = serve(t, http.MethodGet, "/fs/super-intensive/growth", "/fs/:id/growth", h.Growth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var g advisory.GrowthRate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, 2.5, g.DailyGrams)
}

func TestFeedPlanUsesLocationAndPrice(t *testing.T) {
	planner := &stubPlanner{}
	loc := time.FixedZone("WAT", 3600)
	h := NewAdvisoryHandler(planner, 0, loc, nil)
	h.now = func() time.Time { return time.Date(2024, 7, 9, 23, 30, 0, 0, time.UTC) }

	w := serve(t, http.MethodGet, "/plan?feedPrice=1.75", "/plan", h.FeedPlan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.75, planner.gotPrice)
	assert.Equal(t, 10, planner.gotDay.Day())
}

func TestPlannerFailureIsServerError(t *testing.T) {
	h := NewAdvisoryHandler(&stubPlanner{err: errors.New("db down")}, 0, nil, nil)
	w := serve(t, http.MethodGet, "/b/x/advice", "/b/:id/advice", h.BatchAdvice, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}

func TestFeedPriceQueryMustBeFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "+Inf", "-Inf", "-2", "cheap"} {
		t.Run(raw, func(t *testing.T) {
			planner := &stubPlanner{gotPrice: -99}
			h := NewAdvisoryHandler(planner, 0, nil, nil)

			w := serve(t, http.MethodGet, "/plan?feedPrice="+url.QueryEscape(raw), "/plan", h.FeedPlan, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid feedPrice")
			assert.Equal(t, -99.0, planner.gotPrice)

			w = serve(t, http.MethodGet, "/b/x/advice?feedPrice="+url.QueryEscape(raw), "/b/:id/advice", h.BatchAdvice, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPlannerInvalidPriceIsBadRequest(t *testing.T) {
	h := NewAdvisoryHandler(&stubPlanner{err: advisory.ErrInvalidArgument}, 0, nil, nil)
	w := serve(t, http.MethodGet, "/plan", "/plan", h.FeedPlan, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
