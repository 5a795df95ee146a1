package models

import "time"

// BatchStatusActive marks a batch that is still being raised.
const BatchStatusActive = "active"

// Batch is a group of fish tracked together through the farm sections.
type Batch struct {
	ID             string    `bson:"_id" json:"id"`
	UserID         string    `bson:"user_id" json:"-"`
	BatchID        string    `bson:"batch_id" json:"batchId"`
	Section        string    `bson:"section" json:"section"`
	Species        string    `bson:"species" json:"species"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	FarmingSystem  string    `bson:"farming_system" json:"farmingSystem"`
	AvgWeightGrams float64   `bson:"avg_weight_grams,omitempty" json:"avgWeight,omitempty"`
	VolumeM3       float64   `bson:"volume_m3,omitempty" json:"volume,omitempty"`
	StartDate      string    `bson:"start_date,omitempty" json:"startDate,omitempty"`
	Notes          string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}
