package advisory

// BatchFigures are the batch values the engine can use. Zero means unknown.
type BatchFigures struct {
	System         SystemID
	Quantity       int
	AvgWeightGrams float64
	VolumeM3       float64
	FeedPricePerKg float64
}

// Advice bundles everything the dashboard shows for one batch. Feed, density
// and cost are only present when the figures they need are known.
type Advice struct {
	System          SystemID       `json:"farmingSystem"`
	Recommendations Recommendation `json:"recommendations"`
	Growth          GrowthRate     `json:"growthRate"`
	Feed            *Feed          `json:"feed,omitempty"`
	Density         *Density       `json:"density,omitempty"`
	Cost            *Cost          `json:"cost,omitempty"`
}

// Advise composes the calculators for a single batch.
func Advise(in BatchFigures) (Advice, error) {
	if err := checkQuantity(in.Quantity); err != nil {
		return Advice{}, err
	}

	profile := Lookup(in.System)
	advice := Advice{
		System:          profile.ID,
		Recommendations: Recommendations(profile.ID),
		Growth:          profile.Growth,
	}

	if in.Quantity > 0 && in.AvgWeightGrams > 0 {
		feed, err := ComputeFeed(in.Quantity, in.AvgWeightGrams, profile.ID)
		if err != nil {
			return Advice{}, err
		}
		advice.Feed = &feed
	}

	if in.Quantity > 0 && in.VolumeM3 > 0 {
		density, err := ComputeDensity(in.Quantity, in.AvgWeightGrams, in.VolumeM3, profile.ID)
		if err != nil {
			return Advice{}, err
		}
		advice.Density = &density
	}

	if in.Quantity > 0 {
		price := in.FeedPricePerKg
		if price == 0 {
			price = DefaultFeedPricePerKg
		}
		weight := in.AvgWeightGrams
		if weight == 0 {
			weight = AssumedAvgWeightGrams
		}
		cost, err := EstimateCostWithWeight(profile.ID, in.Quantity, price, weight)
		if err != nil {
			return Advice{}, err
		}
		advice.Cost = &cost
	}

	return advice, nil
}
