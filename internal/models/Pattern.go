package models

// LabelConvectiveRisk is the pattern label whose probability doubles as the
// scalar convective-risk score on PatternResult.
const LabelConvectiveRisk = "convective_risk"

// PatternLabels is the fixed label set of the atmospheric pattern model, in
// model output order.
var PatternLabels = []string{
	LabelConvectiveRisk,
	"stable_atmosphere",
	"frontal_passage",
	"moisture_buildup",
	"variable_conditions",
}

// FeatureVectorSize is the fixed model input width.
const FeatureVectorSize = 8

// FeatureVector is the fixed-order, scaled model input: temperature,
// humidity, pressure, cloud cover, lightning probability, wind speed,
// precipitation, visibility.
type FeatureVector [FeatureVectorSize]float64

// WeatherContext supplies the non-cloud/lightning variables for feature
// extraction, each aggregated to one representative value over the series
// window. Nil fields are imputed to zero and mark the result degraded.
type WeatherContext struct {
	Temperature   *float64
	Humidity      *float64
	Pressure      *float64
	WindSpeed     *float64
	Precipitation *float64
	Visibility    *float64
}

type Pattern struct {
	Name        string  `json:"name" example:"convective_risk"`
	Probability float64 `json:"probability" example:"0.31"`
}

// PatternResult holds the classifier output. Patterns covers PatternLabels
// in order and the probabilities sum to 1. ConvectiveRisk always equals the
// probability of the convective_risk entry. Degraded is set when any input
// variable was imputed.
type PatternResult struct {
	Patterns       []Pattern `json:"patterns"`
	ConvectiveRisk float64   `json:"convective_risk"`
	Summary        string    `json:"summary"`
	Degraded       bool      `json:"degraded"`
}
