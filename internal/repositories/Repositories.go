package repositories

import (
	"context"
	"net/http"

	"github.com/jackiefasty/weather-data-visualization-app/config"
	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// ForecastRepository fetches a raw provider payload for a point. The
// payload is handed to the normalizer untouched.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (*models.SMHIPayload, error)
}

// GeocodeRepository turns a free-text query into ranked location candidates.
type GeocodeRepository interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error)
}

// HTTPClient is the slice of http.Client the repositories use; tests swap
// in their own implementation.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func InitRepositories(cnf *config.Config, l *observe.Logger) (ForecastRepository, GeocodeRepository) {
	client := &http.Client{Timeout: cnf.ProviderTimeout()}

	smhi := NewSMHIRepository(cnf.SMHI.BaseURL, l, client)
	nominatim := NewNominatimRepository(
		cnf.Nominatim.BaseURL,
		cnf.Nominatim.UserAgent,
		cnf.Nominatim.RequestsPerSecond,
		l,
		client,
	)

	return smhi, nominatim
}
