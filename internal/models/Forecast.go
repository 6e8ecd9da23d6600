package models

import (
	"fmt"
	"time"
)

// TimePoint is a single normalized forecast instant. Both percentages are
// clamped to [0,100] by the normalizer; raw provider values never escape it.
type TimePoint struct {
	Timestamp        time.Time `json:"timestamp"`
	CloudCoverPct    float64   `json:"cloud_cover_pct"`
	LightningProbPct float64   `json:"lightning_prob_pct"`
}

// ForecastSeries is an ordered sequence of TimePoints, strictly increasing
// by timestamp. It belongs to the request that produced it and is never
// cached or shared.
type ForecastSeries []TimePoint

// Forecast is the envelope for a successful forecast request. Latitude and
// longitude are the grid point the provider actually answered for, which may
// differ slightly from the requested coordinates.
type Forecast struct {
	ApprovedTime   string         `json:"approved_time,omitempty"`
	ReferenceTime  string         `json:"reference_time,omitempty"`
	Latitude       float64        `json:"latitude" example:"59.3251"`
	Longitude      float64        `json:"longitude" example:"18.0711"`
	Series         ForecastSeries `json:"time_series"`
	SkippedEntries int            `json:"skipped_entries,omitempty"`
}

func (f *Forecast) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f points: %d", f.Latitude, f.Longitude, len(f.Series))
}

// AggregatedPoint is one bucket of an aggregated series.
type AggregatedPoint struct {
	BucketLabel      string  `json:"bucket_label" example:"2025-08-24"`
	CloudCoverPct    float64 `json:"cloud_cover_pct" example:"62.5"`
	LightningProbPct float64 `json:"lightning_prob_pct" example:"14.0"`
}
