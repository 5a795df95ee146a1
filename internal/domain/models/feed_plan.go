package models

import "time"

// FeedPlanLine is the computed ration for one active batch.
type FeedPlanLine struct {
	BatchID       string  `bson:"batch_id" json:"batchId"`
	Species       string  `bson:"species" json:"species"`
	FarmingSystem string  `bson:"farming_system" json:"farmingSystem"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	DailyFeedKg   float64 `bson:"daily_feed_kg" json:"dailyFeedKg"`
	WeeklyFeedKg  float64 `bson:"weekly_feed_kg" json:"weeklyFeedKg"`
	MonthlyCost   float64 `bson:"monthly_cost" json:"monthlyCost"`
}

// FeedPlan is the farm-wide feeding digest for one day.
type FeedPlan struct {
	UserID           string         `bson:"user_id" json:"-"`
	Date             time.Time      `bson:"date" json:"date"`
	FeedPricePerKg   float64        `bson:"feed_price_per_kg" json:"feedPricePerKg"`
	Lines            []FeedPlanLine `bson:"lines" json:"lines"`
	Skipped          []string       `bson:"skipped,omitempty" json:"skipped,omitempty"`
	TotalDailyFeedKg float64        `bson:"total_daily_feed_kg" json:"totalDailyFeedKg"`
	TotalMonthlyCost float64        `bson:"total_monthly_cost" json:"totalMonthlyCost"`
	CreatedAt        time.Time      `bson:"created_at" json:"createdAt"`
}
