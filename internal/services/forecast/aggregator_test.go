package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
)

// hourlySeries builds n points, one per hour, starting at start. Cloud
// cover is the point index, lightning probability twice the index, so
// bucket means are easy to compute by hand.
func hourlySeries(start time.Time, n int) models.ForecastSeries {
	series := make(models.ForecastSeries, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, models.TimePoint{
			Timestamp:        start.Add(time.Duration(i) * time.Hour),
			CloudCoverPct:    float64(i),
			LightningProbPct: float64(2 * i),
		})
	}
	return series
}

func TestParseResolution(t *testing.T) {
	res, err := ParseResolution("")
	require.NoError(t, err)
	assert.Equal(t, ResolutionHourly, res)

	res, err = ParseResolution("daily")
	require.NoError(t, err)
	assert.Equal(t, ResolutionDaily, res)

	res, err = ParseResolution("monthly")
	require.NoError(t, err)
	assert.Equal(t, ResolutionMonthly, res)

	_, err = ParseResolution("weekly")
	assert.Error(t, err)
}

func TestAggregate_HourlyIsIdentity(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	series := hourlySeries(start, 48)

	points, effective := Aggregate(series, ResolutionHourly)

	assert.Equal(t, ResolutionHourly, effective)
	require.Len(t, points, 48)
	assert.Equal(t, "2025-07-01 00:00", points[0].BucketLabel)
	assert.Equal(t, "2025-07-02 23:00", points[47].BucketLabel)
	assert.Equal(t, 47.0, points[47].CloudCoverPct)
}

func TestAggregate_ShortCircuitForcesHourly(t *testing.T) {
	// A series of up to 24 points stays hourly even when daily or monthly
	// was requested.
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	series := hourlySeries(start, 24)

	points, effective := Aggregate(series, ResolutionDaily)
	assert.Equal(t, ResolutionHourly, effective)
	assert.Len(t, points, 24)

	points, effective = Aggregate(series, ResolutionMonthly)
	assert.Equal(t, ResolutionHourly, effective)
	assert.Len(t, points, 24)
}

func TestAggregate_DailyTwoDayRoundTrip(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	series := hourlySeries(start, 48)

	points, effective := Aggregate(series, ResolutionDaily)

	assert.Equal(t, ResolutionDaily, effective)
	require.Len(t, points, 2)

	// Day one holds indices 0..23, day two 24..47.
	assert.Equal(t, "2025-07-01", points[0].BucketLabel)
	assert.InDelta(t, 11.5, points[0].CloudCoverPct, 1e-9)
	assert.InDelta(t, 23.0, points[0].LightningProbPct, 1e-9)

	assert.Equal(t, "2025-07-02", points[1].BucketLabel)
	assert.InDelta(t, 35.5, points[1].CloudCoverPct, 1e-9)
	assert.InDelta(t, 71.0, points[1].LightningProbPct, 1e-9)
}

func TestAggregate_MonthlyBucketing(t *testing.T) {
	jan := hourlySeries(time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC), 48)
	feb := hourlySeries(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), 24)
	series := append(jan, feb...)

	points, effective := Aggregate(series, ResolutionMonthly)

	assert.Equal(t, ResolutionMonthly, effective)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-01", points[0].BucketLabel)
	assert.InDelta(t, 23.5, points[0].CloudCoverPct, 1e-9) // mean of 0..47
	assert.Equal(t, "2025-02", points[1].BucketLabel)
	assert.InDelta(t, 11.5, points[1].CloudCoverPct, 1e-9) // mean of 0..23
}

func TestAggregate_Deterministic(t *testing.T) {
	series := hourlySeries(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 72)

	first, firstRes := Aggregate(series, ResolutionDaily)
	second, secondRes := Aggregate(series, ResolutionDaily)

	assert.Equal(t, firstRes, secondRes)
	assert.Equal(t, first, second)
}
