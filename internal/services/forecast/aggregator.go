package forecast

import (
	"fmt"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
)

// Resolution is the temporal bucket granularity for aggregation.
type Resolution string

const (
	ResolutionHourly  Resolution = "hourly"
	ResolutionDaily   Resolution = "daily"
	ResolutionMonthly Resolution = "monthly"
)

// ParseResolution maps the query-parameter form to a Resolution. An empty
// string means hourly.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case "":
		return ResolutionHourly, nil
	case ResolutionHourly, ResolutionDaily, ResolutionMonthly:
		return Resolution(s), nil
	default:
		return "", fmt.Errorf("invalid resolution %q", s)
	}
}

// Series of up to this many points are always emitted at hourly shape,
// whatever resolution was requested; a daily or monthly view of a short
// series collapses into one or two useless buckets.
const hourlyShortCircuitLimit = 24

const hourlyLabelLayout = "2006-01-02 15:04"

// Aggregate buckets the series at the requested resolution and returns the
// points together with the resolution actually applied (which differs from
// the requested one only through the short-circuit above). Aggregation is
// pure: identical input always yields identical output. Buckets are emitted
// in first-seen order, which equals chronological order for a normalized
// series.
func Aggregate(series models.ForecastSeries, res Resolution) ([]models.AggregatedPoint, Resolution) {
	if res == ResolutionHourly || len(series) <= hourlyShortCircuitLimit {
		points := make([]models.AggregatedPoint, 0, len(series))
		for _, p := range series {
			points = append(points, models.AggregatedPoint{
				BucketLabel:      p.Timestamp.Format(hourlyLabelLayout),
				CloudCoverPct:    p.CloudCoverPct,
				LightningProbPct: p.LightningProbPct,
			})
		}
		return points, ResolutionHourly
	}

	var layout string
	switch res {
	case ResolutionDaily:
		layout = "2006-01-02"
	case ResolutionMonthly:
		layout = "2006-01"
	}

	type bucket struct {
		cloudSum, lightningSum float64
		count                  int
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, p := range series {
		key := p.Timestamp.Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.cloudSum += p.CloudCoverPct
		b.lightningSum += p.LightningProbPct
		b.count++
	}

	points := make([]models.AggregatedPoint, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		points = append(points, models.AggregatedPoint{
			BucketLabel:      key,
			CloudCoverPct:    b.cloudSum / float64(b.count),
			LightningProbPct: b.lightningSum / float64(b.count),
		})
	}

	return points, res
}
