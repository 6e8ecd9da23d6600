package patterns

import (
	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
)

// Feature vector index layout. The order is part of the model contract and
// must match the training pipeline.
const (
	featTemperature = iota
	featHumidity
	featPressure
	featCloudCover
	featLightningProb
	featWindSpeed
	featPrecipitation
	featVisibility
)

// Input scaling, matching the training pipeline. Temperature stays raw.
const (
	humidityScale   = 100.0
	pressureScale   = 1013.0
	cloudScale      = 100.0
	lightningScale  = 100.0
	windScale       = 20.0
	precipScale     = 10.0 // multiplier, not divisor
	visibilityScale = 50.0
)

// ExtractFeatures builds the fixed-order feature vector from the series'
// mean cloud/lightning values and the supplied context. Missing context
// variables are imputed to zero; the second return value reports whether
// any imputation happened.
func ExtractFeatures(series models.ForecastSeries, wctx models.WeatherContext) (models.FeatureVector, bool) {
	var fv models.FeatureVector
	degraded := false

	pick := func(v *float64) float64 {
		if v == nil {
			degraded = true
			return 0
		}
		return *v
	}

	fv[featTemperature] = pick(wctx.Temperature)
	fv[featHumidity] = pick(wctx.Humidity) / humidityScale
	fv[featPressure] = pick(wctx.Pressure) / pressureScale
	fv[featWindSpeed] = pick(wctx.WindSpeed) / windScale
	fv[featPrecipitation] = pick(wctx.Precipitation) * precipScale
	fv[featVisibility] = pick(wctx.Visibility) / visibilityScale

	if len(series) > 0 {
		var cloudSum, lightningSum float64
		for _, p := range series {
			cloudSum += p.CloudCoverPct
			lightningSum += p.LightningProbPct
		}
		n := float64(len(series))
		fv[featCloudCover] = cloudSum / n / cloudScale
		fv[featLightningProb] = lightningSum / n / lightningScale
	}

	return fv, degraded
}

// ContextFromPayload derives the representative context for a payload: the
// mean of each atmospheric parameter across the entries that report it.
// A parameter absent from every entry stays nil and is later imputed.
func ContextFromPayload(payload *models.SMHIPayload) models.WeatherContext {
	mean := func(name string) *float64 {
		var sum float64
		var n int
		for _, entry := range payload.TimeSeries {
			if v, ok := entry.Param(name); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil
		}
		v := sum / float64(n)
		return &v
	}

	return models.WeatherContext{
		Temperature:   mean(models.ParamTemperature),
		Humidity:      mean(models.ParamHumidity),
		Pressure:      mean(models.ParamPressure),
		WindSpeed:     mean(models.ParamWindSpeed),
		Precipitation: mean(models.ParamPrecipitation),
		Visibility:    mean(models.ParamVisibility),
	}
}
