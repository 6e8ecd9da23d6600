package forecast

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/internal/repositories"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// Service fetches raw provider payloads and normalizes them into the
// canonical forecast envelope.
type Service struct {
	repo repositories.ForecastRepository
	l    *observe.Logger
	m    *observe.Metrics
}

func NewService(repo repositories.ForecastRepository, l *observe.Logger, m *observe.Metrics) *Service {
	return &Service{
		repo: repo,
		l:    l,
		m:    m,
	}
}

// FetchRaw retrieves the provider payload without normalizing it; the
// pattern classifier consumes this form directly.
func (s *Service) FetchRaw(ctx context.Context, lat, lon float64) (*models.SMHIPayload, error) {
	payload, err := s.repo.FetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch forecast from %s", s.repo.Name())
	}
	return payload, nil
}

// GetForecast fetches and normalizes the forecast for a point. Individually
// malformed entries are dropped and reported on the envelope; a payload
// with no usable entries surfaces as a MalformedForecastError.
func (s *Service) GetForecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	payload, err := s.repo.FetchForecast(ctx, lat, lon)
	if err != nil {
		s.m.ForecastRequests.WithLabelValues("error").Inc()
		return nil, errors.Wrapf(err, "fetch forecast from %s", s.repo.Name())
	}

	series, skipped, err := Normalize(payload)
	if err != nil {
		s.m.ForecastRequests.WithLabelValues("malformed").Inc()
		return nil, err
	}

	if skipped > 0 {
		s.m.EntriesSkipped.Add(float64(skipped))
		s.l.Warning("skipped malformed forecast entries", map[string]any{
			"skipped": skipped,
			"kept":    len(series),
		})
	}

	gridLon, gridLat := payload.GridCoordinates(lon, lat)
	result := &models.Forecast{
		ApprovedTime:   payload.ApprovedTime,
		ReferenceTime:  payload.ReferenceTime,
		Latitude:       gridLat,
		Longitude:      gridLon,
		Series:         series,
		SkippedEntries: skipped,
	}

	s.m.ForecastRequests.WithLabelValues("success").Inc()
	s.l.Info("normalized forecast", map[string]any{"params": result.RequestParams()})

	return result, nil
}
