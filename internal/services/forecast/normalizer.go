package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
)

// tstm value SMHI uses when thunderstorm probability is not available.
const thunderProbNA = -9

// Normalize converts a raw SMHI payload into the canonical ordered series.
// Cloud cover arrives in octas and is converted to a percentage rounded to
// one decimal; thunderstorm probability passes through with clamping only.
// Entries missing a parseable timestamp, the cloud cover parameter, or the
// thunderstorm parameter are skipped individually and counted. Duplicate
// timestamps keep the last occurrence, since provider corrections supersede
// earlier entries. The output is sorted ascending by timestamp.
//
// It returns a MalformedForecastError when no valid entry remains.
func Normalize(payload *models.SMHIPayload) (models.ForecastSeries, int, error) {
	if payload == nil || len(payload.TimeSeries) == 0 {
		return nil, 0, &models.MalformedForecastError{Reason: "payload contains no time series"}
	}

	skipped := 0
	byTimestamp := make(map[time.Time]models.TimePoint, len(payload.TimeSeries))

	for _, entry := range payload.TimeSeries {
		ts, err := time.Parse(time.RFC3339, entry.ValidTime)
		if err != nil {
			skipped++
			continue
		}

		octas, okCloud := entry.Param(models.ParamCloudCover)
		thunder, okThunder := entry.Param(models.ParamThunderProb)
		if !okCloud || !okThunder {
			skipped++
			continue
		}

		if thunder == thunderProbNA {
			thunder = 0
		}

		byTimestamp[ts.UTC()] = models.TimePoint{
			Timestamp:        ts.UTC(),
			CloudCoverPct:    clampPct(roundOneDecimal(octas / 8 * 100)),
			LightningProbPct: clampPct(thunder),
		}
	}

	if len(byTimestamp) == 0 {
		return nil, skipped, &models.MalformedForecastError{
			Reason:  "no entry carries a valid timestamp, cloud cover and thunderstorm probability",
			Skipped: skipped,
		}
	}

	series := make(models.ForecastSeries, 0, len(byTimestamp))
	for _, point := range byTimestamp {
		series = append(series, point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	return series, skipped, nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampPct(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
