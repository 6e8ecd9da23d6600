package patterns

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
)

// Scorer maps a feature vector to one raw score per pattern label.
// Implementations must be deterministic for identical inputs, stateless
// across calls, and free of side effects.
type Scorer interface {
	Score(fv models.FeatureVector) []float64
}

// ScorerSource yields the shared scorer, loading it on first use. A load
// failure is remembered and reported on every subsequent call.
type ScorerSource interface {
	Scorer() (Scorer, error)
}

// modelArtifact is the on-disk shape of the trained mapping: one weight row
// and one bias term per label, labels in output order.
type modelArtifact struct {
	Labels  []string    `json:"labels"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LinearModel is the shipped trained mapping, a single dense layer exported
// from the training pipeline. It is immutable after load and safe for
// concurrent use.
type LinearModel struct {
	weights [][]float64
	bias    []float64
}

// LoadModel reads and validates the artifact. Every failure wraps
// ErrModelUnavailable so callers can degrade gracefully.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(models.ErrModelUnavailable, "read artifact %s: %v", path, err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrapf(models.ErrModelUnavailable, "parse artifact %s: %v", path, err)
	}

	if len(artifact.Labels) != len(models.PatternLabels) {
		return nil, errors.Wrapf(models.ErrModelUnavailable, "artifact has %d labels, want %d", len(artifact.Labels), len(models.PatternLabels))
	}
	for i, label := range artifact.Labels {
		if label != models.PatternLabels[i] {
			return nil, errors.Wrapf(models.ErrModelUnavailable, "artifact label %d is %q, want %q", i, label, models.PatternLabels[i])
		}
	}
	if len(artifact.Weights) != len(artifact.Labels) || len(artifact.Bias) != len(artifact.Labels) {
		return nil, errors.Wrap(models.ErrModelUnavailable, "artifact weights/bias do not match the label count")
	}
	for i, row := range artifact.Weights {
		if len(row) != models.FeatureVectorSize {
			return nil, errors.Wrapf(models.ErrModelUnavailable, "weight row %d has %d columns, want %d", i, len(row), models.FeatureVectorSize)
		}
	}

	return &LinearModel{
		weights: artifact.Weights,
		bias:    artifact.Bias,
	}, nil
}

func (m *LinearModel) Score(fv models.FeatureVector) []float64 {
	scores := make([]float64, len(m.weights))
	for i, row := range m.weights {
		s := m.bias[i]
		for j, w := range row {
			s += w * fv[j]
		}
		scores[i] = s
	}
	return scores
}

// Loader loads the artifact lazily, exactly once; all in-flight requests
// share the loaded model without locking since it is never mutated.
type Loader struct {
	path  string
	once  sync.Once
	model *LinearModel
	err   error
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Scorer() (Scorer, error) {
	l.once.Do(func() {
		l.model, l.err = LoadModel(l.path)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}
