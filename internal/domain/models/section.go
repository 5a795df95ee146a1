package models

import (
	"strings"
	"time"
)

// SectionKind enumerates the farm sections that keep their own journal.
type SectionKind string

const (
	SectionHatchery   SectionKind = "hatchery"
	SectionPreGrowOut SectionKind = "pre-grow-out"
	SectionGrowOut    SectionKind = "grow-out"
	SectionPuddling   SectionKind = "puddling"
	SectionQuarantine SectionKind = "quarantine"
)

var sectionKinds = []SectionKind{
	SectionHatchery,
	SectionPreGrowOut,
	SectionGrowOut,
	SectionPuddling,
	SectionQuarantine,
}

// SectionKinds lists all sections in farm flow order.
func SectionKinds() []SectionKind {
	out := make([]SectionKind, len(sectionKinds))
	copy(out, sectionKinds)
	return out
}

// ParseSectionKind accepts the URL slug form ("pre-grow-out") as well as the
// storage form ("pre_grow_out").
func ParseSectionKind(value string) (SectionKind, bool) {
	normalized := SectionKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-"))
	for _, k := range sectionKinds {
		if k == normalized {
			return k, true
		}
	}
	return "", false
}

// Collection returns the storage collection holding this section's records.
func (k SectionKind) Collection() string {
	return strings.ReplaceAll(string(k), "-", "_") + "_records"
}

// SectionRecord is one journal entry of a section. Columns that only exist
// for some sections are optional; Sanitize drops the ones that do not apply.
type SectionRecord struct {
	ID        string      `bson:"_id" json:"id"`
	UserID    string      `bson:"user_id" json:"-"`
	Section   SectionKind `bson:"section" json:"section"`
	Date      string      `bson:"date,omitempty" json:"date,omitempty"`
	BatchID   string      `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	Species   string      `bson:"species,omitempty" json:"species,omitempty"`
	Quantity  *int        `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Notes     string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`

	// hatchery
	EggsCount    *int     `bson:"eggs_count,omitempty" json:"eggs_count,omitempty"`
	HatchingRate *float64 `bson:"hatching_rate,omitempty" json:"hatching_rate,omitempty"`

	// hatchery, grow-out
	WaterTemp *float64 `bson:"water_temp,omitempty" json:"water_temp,omitempty"`

	// hatchery, puddling
	PHLevel *float64 `bson:"ph_level,omitempty" json:"ph_level,omitempty"`

	// pre-grow-out, grow-out
	AvgWeight  *float64 `bson:"avg_weight,omitempty" json:"avg_weight,omitempty"`
	FeedAmount *float64 `bson:"feed_amount,omitempty" json:"feed_amount,omitempty"`

	// pre-grow-out
	WaterQuality string `bson:"water_quality,omitempty" json:"water_quality,omitempty"`

	// grow-out
	Mortality *int `bson:"mortality,omitempty" json:"mortality,omitempty"`

	// puddling
	PondNumber string   `bson:"pond_number,omitempty" json:"pond_number,omitempty"`
	WaterLevel *float64 `bson:"water_level,omitempty" json:"water_level,omitempty"`

	// quarantine
	Reason         string `bson:"reason,omitempty" json:"reason,omitempty"`
	HealthStatus   string `bson:"health_status,omitempty" json:"health_status,omitempty"`
	Treatment      string `bson:"treatment,omitempty" json:"treatment,omitempty"`
	QuarantineDays *int   `bson:"quarantine_days,omitempty" json:"quarantine_days,omitempty"`
}

// Sanitize binds the record to kind and clears every column that kind does
// not keep.
func (r *SectionRecord) Sanitize(kind SectionKind) {
	r.Section = kind

	if kind != SectionHatchery {
		r.EggsCount = nil
		r.HatchingRate = nil
	}
	if kind != SectionHatchery && kind != SectionGrowOut {
		r.WaterTemp = nil
	}
	if kind != SectionHatchery && kind != SectionPuddling {
		r.PHLevel = nil
	}
	if kind != SectionPreGrowOut && kind != SectionGrowOut {
		r.AvgWeight = nil
		r.FeedAmount = nil
	}
	if kind != SectionPreGrowOut {
		r.WaterQuality = ""
	}
	if kind != SectionGrowOut {
		r.Mortality = nil
	}
	if kind != SectionPuddling {
		r.PondNumber = ""
		r.WaterLevel = nil
	}
	if kind != SectionQuarantine {
		r.Reason = ""
		r.HealthStatus = ""
		r.Treatment = ""
		r.QuarantineDays = nil
	}
	// hatchery journals count eggs, not fish, and carry no batch
	if kind == SectionHatchery {
		r.BatchID = ""
		r.Quantity = nil
	}
}
