package advisory

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for negative or non-finite inputs.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	daysPerWeek  = 7
	daysPerMonth = 30

	// AssumedAvgWeightGrams is the per-fish weight used for cost estimates
	// when the caller has no measured figure.
	AssumedAvgWeightGrams = 500.0

	// DefaultFeedPricePerKg is the feed price used when none is configured.
	DefaultFeedPricePerKg = 1.5
)

// DensityStatus classifies a stocking density against a profile band.
type DensityStatus string

const (
	StatusOptimal DensityStatus = "optimal"
	StatusLow     DensityStatus = "low"
	StatusHigh    DensityStatus = "high"
)

// Feed is a feed mass schedule in kilograms.
type Feed struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// Density is the current stocking density compared with the profile band.
type Density struct {
	Current     float64       `json:"current"`
	Recommended float64       `json:"recommended"`
	Min         float64       `json:"min"`
	Max         float64       `json:"max"`
	IsOptimal   bool          `json:"isOptimal"`
	Status      DensityStatus `json:"status"`
}

// FeedCost is the feed share of the production cost.
type FeedCost struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
}

// OverheadCost holds the monthly overhead lines.
type OverheadCost struct {
	Aeration       float64 `json:"aeration"`
	WaterTreatment float64 `json:"waterTreatment"`
	Monitoring     float64 `json:"monitoring"`
}

// TotalCost is feed plus overhead.
type TotalCost struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
}

// Cost is a production cost breakdown.
type Cost struct {
	Feed     FeedCost     `json:"feed"`
	Overhead OverheadCost `json:"additional"`
	Total    TotalCost    `json:"total"`
}

// ComputeFeed returns the daily, weekly and monthly feed mass for a batch
// using the system's default feeding percentage.
func ComputeFeed(quantity int, avgWeightGrams float64, id SystemID) (Feed, error) {
	return ComputeFeedWithPercent(quantity, avgWeightGrams, id, 0)
}

// ComputeFeedWithPercent is ComputeFeed with an explicit percentage of body
// weight fed per day. A zero percent means the system default.
func ComputeFeedWithPercent(quantity int, avgWeightGrams float64, id SystemID, percent float64) (Feed, error) {
	if err := checkQuantity(quantity); err != nil {
		return Feed{}, err
	}
	if err := checkNonNegative("average weight", avgWeightGrams); err != nil {
		return Feed{}, err
	}
	if err := checkNonNegative("feed percent", percent); err != nil {
		return Feed{}, err
	}

	if percent == 0 {
		percent = Lookup(id).DailyFeedPercent
	}

	daily := biomassKg(quantity, avgWeightGrams) * percent / 100
	return Feed{
		Daily:   round2(daily),
		Weekly:  round2(daily * daysPerWeek),
		Monthly: round2(daily * daysPerMonth),
	}, nil
}

// ComputeDensity evaluates biomass per cubic meter against the system band.
// A zero volume yields a current density of 0, which classifies as low for
// every system whose minimum is above zero.
func ComputeDensity(quantity int, avgWeightGrams, volumeM3 float64, id SystemID) (Density, error) {
	if err := checkQuantity(quantity); err != nil {
		return Density{}, err
	}
	if err := checkNonNegative("average weight", avgWeightGrams); err != nil {
		return Density{}, err
	}
	if err := checkNonNegative("volume", volumeM3); err != nil {
		return Density{}, err
	}

	band := Lookup(id).StockingDensity

	var current float64
	if volumeM3 > 0 {
		current = biomassKg(quantity, avgWeightGrams) / volumeM3
	}

	status := StatusOptimal
	switch {
	case current < band.Min:
		status = StatusLow
	case current > band.Max:
		status = StatusHigh
	}

	return Density{
		Current:     round2(current),
		Recommended: band.Recommended,
		Min:         band.Min,
		Max:         band.Max,
		IsOptimal:   status == StatusOptimal,
		Status:      status,
	}, nil
}

// EstimateCost estimates feed and overhead cost for a batch, assuming an
// average individual weight of AssumedAvgWeightGrams.
func EstimateCost(id SystemID, quantity int, feedPricePerKg float64) (Cost, error) {
	return EstimateCostWithWeight(id, quantity, feedPricePerKg, AssumedAvgWeightGrams)
}

// EstimateCostWithWeight is EstimateCost with a caller supplied weight.
func EstimateCostWithWeight(id SystemID, quantity int, feedPricePerKg, avgWeightGrams float64) (Cost, error) {
	if err := checkFinite("feed price", feedPricePerKg); err != nil {
		return Cost{}, err
	}
	if feedPricePerKg <= 0 {
		return Cost{}, fmt.Errorf("%w: feed price must be greater than zero", ErrInvalidArgument)
	}

	feed, err := ComputeFeed(quantity, avgWeightGrams, id)
	if err != nil {
		return Cost{}, err
	}

	ratios := Lookup(id).Overhead
	dailyFeedCost := feed.Daily * feedPricePerKg
	monthlyFeedCost := feed.Monthly * feedPricePerKg

	overhead := OverheadCost{
		Aeration:       monthlyFeedCost * ratios.Aeration,
		WaterTreatment: monthlyFeedCost * ratios.WaterTreatment,
		Monitoring:     monthlyFeedCost * ratios.Monitoring,
	}
	totalMonthly := monthlyFeedCost + overhead.Aeration + overhead.WaterTreatment + overhead.Monitoring

	return Cost{
		Feed: FeedCost{
			Daily:   round2(dailyFeedCost),
			Monthly: round2(monthlyFeedCost),
		},
		Overhead: OverheadCost{
			Aeration:       round2(overhead.Aeration),
			WaterTreatment: round2(overhead.WaterTreatment),
			Monitoring:     round2(overhead.Monitoring),
		},
		Total: TotalCost{
			Daily:   round2(totalMonthly / daysPerMonth),
			Monthly: round2(totalMonthly),
		},
	}, nil
}

func biomassKg(quantity int, avgWeightGrams float64) float64 {
	return float64(quantity) * avgWeightGrams / 1000
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func checkQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidArgument, quantity)
	}
	return nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidArgument, field)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if err := checkFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidArgument, field, v)
	}
	return nil
}
