package patterns

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/forecast"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// The model needs at least two timesteps to say anything about a trend.
const minSeriesLength = 2

// Classifier runs the atmospheric pattern model over a normalized series.
type Classifier struct {
	source ScorerSource
	l      *observe.Logger
	m      *observe.Metrics
}

func NewClassifier(source ScorerSource, l *observe.Logger, m *observe.Metrics) *Classifier {
	return &Classifier{
		source: source,
		l:      l,
		m:      m,
	}
}

// AnalyzeForecast normalizes a raw payload, derives the weather context
// from it, and classifies the result.
func (c *Classifier) AnalyzeForecast(payload *models.SMHIPayload) (*models.PatternResult, error) {
	series, _, err := forecast.Normalize(payload)
	if err != nil {
		return nil, err
	}
	return c.Classify(series, ContextFromPayload(payload))
}

// Classify extracts the feature vector and produces the pattern probability
// simplex. ConvectiveRisk is read off the convective_risk label, never
// computed separately, so the two fields can never disagree. A missing
// model artifact surfaces as ErrModelUnavailable; callers treat that as a
// soft failure and keep the rest of the response.
func (c *Classifier) Classify(series models.ForecastSeries, wctx models.WeatherContext) (*models.PatternResult, error) {
	if len(series) < minSeriesLength {
		c.m.PatternInferences.WithLabelValues("error").Inc()
		return nil, &models.MalformedForecastError{
			Reason: fmt.Sprintf("pattern analysis needs at least %d forecast points, got %d", minSeriesLength, len(series)),
		}
	}

	scorer, err := c.source.Scorer()
	if err != nil {
		c.m.PatternInferences.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	fv, degraded := ExtractFeatures(series, wctx)

	scores := scorer.Score(fv)
	if len(scores) != len(models.PatternLabels) {
		c.m.PatternInferences.WithLabelValues("error").Inc()
		return nil, errors.Errorf("scorer returned %d scores, want %d", len(scores), len(models.PatternLabels))
	}

	probs := softmax(scores)

	result := &models.PatternResult{
		Patterns: make([]models.Pattern, len(models.PatternLabels)),
		Degraded: degraded,
	}
	for i, name := range models.PatternLabels {
		result.Patterns[i] = models.Pattern{Name: name, Probability: probs[i]}
		if name == models.LabelConvectiveRisk {
			result.ConvectiveRisk = probs[i]
		}
	}
	result.Summary = summarize(result.ConvectiveRisk, probs)

	outcome := "success"
	if degraded {
		outcome = "degraded"
		c.l.Warning("pattern result is degraded, some inputs were imputed", map[string]any{
			"points": len(series),
		})
	}
	c.m.PatternInferences.WithLabelValues(outcome).Inc()

	return result, nil
}

// softmax normalizes raw scores to a probability simplex. The max is
// subtracted first to keep the exponentials finite.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func summarize(risk float64, probs []float64) string {
	top := 0
	for i, p := range probs {
		if p > probs[top] {
			top = i
		}
	}
	topName := strings.ReplaceAll(models.PatternLabels[top], "_", " ")

	switch {
	case risk > 0.5:
		return fmt.Sprintf("Elevated convective/lightning risk (%.0f%%). Dominant pattern: %s (%.0f%%).", risk*100, topName, probs[top]*100)
	case probs[top] > 0.4:
		return fmt.Sprintf("Dominant pattern: %s (%.0f%%). Convective risk: %.0f%%.", topName, probs[top]*100, risk*100)
	default:
		return fmt.Sprintf("Variable conditions. Convective risk: %.0f%%. No dominant pattern identified.", risk*100)
	}
}
