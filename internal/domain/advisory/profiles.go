package advisory

import "strings"

// SystemID identifies a farming-system management tier.
type SystemID string

const (
	SuperIntensive SystemID = "super-intensive"
	Intensive      SystemID = "intensive"
	SemiIntensive  SystemID = "semi-intensive"
	Extensive      SystemID = "extensive"

	// DefaultSystem is used whenever an identifier is missing or unknown.
	DefaultSystem = SemiIntensive
)

// Range describes a min/max band with a recommended value inside it.
type Range struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Recommended float64 `json:"recommended"`
}

// WaterExchange is advisory text about how much water is renewed.
type WaterExchange struct {
	Daily       string `json:"daily"`
	Description string `json:"description"`
}

// WaterQuality holds display bounds for the main water parameters.
type WaterQuality struct {
	DissolvedOxygen string `json:"dissolvedOxygen"`
	Ammonia         string `json:"ammonia"`
	Nitrite         string `json:"nitrite"`
	PH              string `json:"ph"`
}

// GrowthRate is an approximate per-fish weight gain.
type GrowthRate struct {
	DailyGrams   float64 `json:"daily"`
	MonthlyGrams float64 `json:"monthly"`
	Description  string  `json:"description"`
}

// OverheadRatios are fractions of the monthly feed cost.
type OverheadRatios struct {
	Aeration       float64 `json:"aeration"`
	WaterTreatment float64 `json:"waterTreatment"`
	Monitoring     float64 `json:"monitoring"`
}

// Profile is the parameter set of one farming system. It holds no reference
// types, so a returned copy can never alter the table.
type Profile struct {
	ID                  SystemID       `json:"id"`
	DisplayName         string         `json:"name"`
	Description         string         `json:"description"`
	StockingDensity     Range          `json:"stockingDensity"`
	FeedConversionRatio Range          `json:"feedConversionRatio"`
	DailyFeedPercent    float64        `json:"dailyFeedPercent"`
	WaterExchange       WaterExchange  `json:"waterExchange"`
	Aeration            string         `json:"aeration"`
	WaterQuality        WaterQuality   `json:"waterQuality"`
	FeedFrequency       string         `json:"feedFrequency"`
	MonitoringFrequency string         `json:"monitoringFrequency"`
	Growth              GrowthRate     `json:"growthRate"`
	Overhead            OverheadRatios `json:"costOverheadRatios"`
}

// Recommendation is the display subset of a profile shown next to a batch.
type Recommendation struct {
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	StockingDensity     Range         `json:"stockingDensity"`
	FeedFrequency       string        `json:"feedFrequency"`
	WaterExchange       WaterExchange `json:"waterExchange"`
	Aeration            string        `json:"aeration"`
	MonitoringFrequency string        `json:"monitoringFrequency"`
	WaterQuality        WaterQuality  `json:"waterQuality"`
}

var systemOrder = [...]SystemID{SuperIntensive, Intensive, SemiIntensive, Extensive}

var profiles = map[SystemID]Profile{
	SuperIntensive: {
		ID:                  SuperIntensive,
		DisplayName:         "Super Intensive",
		Description:         "Very high stocking density with advanced water treatment and aeration",
		StockingDensity:     Range{Min: 50, Max: 100, Recommended: 75},
		FeedConversionRatio: Range{Min: 1.2, Max: 1.5, Recommended: 1.35},
		DailyFeedPercent:    3.5,
		WaterExchange:       WaterExchange{Daily: "100-200%", Description: "Continuous water exchange with advanced filtration"},
		Aeration:            "Required - High intensity",
		WaterQuality:        WaterQuality{DissolvedOxygen: "> 6 mg/L", Ammonia: "< 0.5 mg/L", Nitrite: "< 0.1 mg/L", PH: "7.0 - 8.5"},
		FeedFrequency:       "4-6 times daily",
		MonitoringFrequency: "Daily - Multiple times",
		Growth:              GrowthRate{DailyGrams: 2.5, MonthlyGrams: 75, Description: "Fast growth due to optimal conditions and high-quality feed"},
		Overhead:            OverheadRatios{Aeration: 0.3, WaterTreatment: 0.2, Monitoring: 0.1},
	},
	Intensive: {
		ID:                  Intensive,
		DisplayName:         "Intensive",
		Description:         "High stocking density with regular water management",
		StockingDensity:     Range{Min: 20, Max: 50, Recommended: 35},
		FeedConversionRatio: Range{Min: 1.3, Max: 1.7, Recommended: 1.5},
		DailyFeedPercent:    3.0,
		WaterExchange:       WaterExchange{Daily: "50-100%", Description: "Regular water exchange with basic filtration"},
		Aeration:            "Required - Moderate intensity",
		WaterQuality:        WaterQuality{DissolvedOxygen: "> 5 mg/L", Ammonia: "< 1.0 mg/L", Nitrite: "< 0.2 mg/L", PH: "6.5 - 8.5"},
		FeedFrequency:       "3-4 times daily",
		MonitoringFrequency: "Daily",
		Growth:              GrowthRate{DailyGrams: 2.0, MonthlyGrams: 60, Description: "Good growth with proper management"},
		Overhead:            OverheadRatios{Aeration: 0.2, WaterTreatment: 0.1, Monitoring: 0.05},
	},
	SemiIntensive: {
		ID:                  SemiIntensive,
		DisplayName:         "Semi-Intensive",
		Description:         "Moderate stocking density with supplemental feeding",
		StockingDensity:     Range{Min: 5, Max: 20, Recommended: 12},
		FeedConversionRatio: Range{Min: 1.5, Max: 2.0, Recommended: 1.75},
		DailyFeedPercent:    2.5,
		WaterExchange:       WaterExchange{Daily: "10-30%", Description: "Periodic water exchange"},
		Aeration:            "Optional - Low intensity",
		WaterQuality:        WaterQuality{DissolvedOxygen: "> 4 mg/L", Ammonia: "< 2.0 mg/L", Nitrite: "< 0.5 mg/L", PH: "6.0 - 8.5"},
		FeedFrequency:       "2-3 times daily",
		MonitoringFrequency: "2-3 times per week",
		Growth:              GrowthRate{DailyGrams: 1.5, MonthlyGrams: 45, Description: "Moderate growth with supplemental feeding"},
		Overhead:            OverheadRatios{Aeration: 0.05, WaterTreatment: 0.05, Monitoring: 0.02},
	},
	Extensive: {
		ID:                  Extensive,
		DisplayName:         "Extensive",
		Description:         "Low stocking density relying on natural food sources",
		StockingDensity:     Range{Min: 0.5, Max: 5, Recommended: 2},
		FeedConversionRatio: Range{Min: 2.0, Max: 3.5, Recommended: 2.5},
		DailyFeedPercent:    1.5,
		WaterExchange:       WaterExchange{Daily: "Natural flow", Description: "Natural water flow or minimal exchange"},
		Aeration:            "Not required",
		WaterQuality:        WaterQuality{DissolvedOxygen: "> 3 mg/L", Ammonia: "< 3.0 mg/L", Nitrite: "< 1.0 mg/L", PH: "6.0 - 9.0"},
		FeedFrequency:       "1-2 times daily or supplemental",
		MonitoringFrequency: "Weekly",
		Growth:              GrowthRate{DailyGrams: 0.8, MonthlyGrams: 24, Description: "Slower growth relying on natural food sources"},
		Overhead:            OverheadRatios{Aeration: 0, WaterTreatment: 0.02, Monitoring: 0.01},
	},
}

// Lookup returns the profile for id. Unknown or empty identifiers resolve to
// the semi-intensive profile instead of failing; callers that need strict
// validation use ParseSystem first.
func Lookup(id SystemID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[DefaultSystem]
}

// ParseSystem strictly parses a user supplied identifier.
func ParseSystem(value string) (SystemID, bool) {
	id := SystemID(strings.ToLower(strings.TrimSpace(value)))
	_, ok := profiles[id]
	return id, ok
}

// Systems lists every known identifier, most intensive first.
func Systems() []SystemID {
	out := make([]SystemID, len(systemOrder))
	copy(out, systemOrder[:])
	return out
}

// Profiles lists every profile in the same order as Systems.
func Profiles() []Profile {
	out := make([]Profile, 0, len(systemOrder))
	for _, id := range systemOrder {
		out = append(out, profiles[id])
	}
	return out
}

// Recommendations returns the advisory text block for a system.
func Recommendations(id SystemID) Recommendation {
	p := Lookup(id)
	return Recommendation{
		Name:                p.DisplayName,
		Description:         p.Description,
		StockingDensity:     p.StockingDensity,
		FeedFrequency:       p.FeedFrequency,
		WaterExchange:       p.WaterExchange,
		Aeration:            p.Aeration,
		MonitoringFrequency: p.MonitoringFrequency,
		WaterQuality:        WaterQualityFor(id),
	}
}

// WaterQualityFor returns the water quality bounds of a system.
func WaterQualityFor(id SystemID) WaterQuality {
	return Lookup(id).WaterQuality
}

// GrowthRateFor returns the pinned growth constants of a system. The values
// are approximate and not derived from recorded weights.
func GrowthRateFor(id SystemID) GrowthRate {
	return Lookup(id).Growth
}
