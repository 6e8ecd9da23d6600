package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

const (
	// SMHIBaseURL serves the pmp3g product (meteorological forecast, 3 km grid).
	SMHIBaseURL         = "https://opendata-download-metfcst.smhi.se"
	smhiForecastVersion = "2"
)

type SMHIRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewSMHIRepository(baseURL string, l *observe.Logger, httpClient HTTPClient) *SMHIRepository {
	if baseURL == "" {
		baseURL = SMHIBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &SMHIRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (s *SMHIRepository) Name() string {
	return "smhi"
}

// FetchForecast retrieves the point forecast for the given coordinates.
// The pmp3g endpoint 404s for some precise coordinates that are still
// inside the Nordic coverage, so rounded and slightly offset candidate
// points are probed until one answers. Non-404 HTTP errors fail fast.
func (s *SMHIRepository) FetchForecast(ctx context.Context, lat, lon float64) (*models.SMHIPayload, error) {
	candidates := candidatePoints(lon, lat)

	s.l.Info("making smhi API request", map[string]any{
		"lat":        lat,
		"lon":        lon,
		"candidates": len(candidates),
	})

	notFound := 0
	for _, p := range candidates {
		url := fmt.Sprintf(
			"%s/api/category/pmp3g/version/%s/geotype/point/lon/%g/lat/%g/data.json",
			s.BaseURL, smhiForecastVersion, p.lon, p.lat,
		)

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to do request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusNotFound {
			notFound++
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
		}

		var payload models.SMHIPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}

		s.l.Info("received smhi forecast", map[string]any{
			"gridLon":   p.lon,
			"gridLat":   p.lat,
			"timeSteps": len(payload.TimeSeries),
		})

		return &payload, nil
	}

	return nil, fmt.Errorf("HTTP error (status %d): no grid point answered after %d candidates", http.StatusNotFound, notFound)
}

type gridPoint struct {
	lon, lat float64
}

// candidatePoints builds the probe sequence for a coordinate pair: the
// original point, rounded variants, then small offsets stepping between
// grid cells. The requested point always comes first.
func candidatePoints(lon, lat float64) []gridPoint {
	seen := make(map[gridPoint]struct{})
	var points []gridPoint

	add := func(lo, la float64) {
		p := gridPoint{lon: roundTo(lo, 6), lat: roundTo(la, 6)}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	add(lon, lat)
	for _, prec := range []int{4, 3, 2} {
		add(roundTo(lon, prec), roundTo(lat, prec))
	}

	base := make([]gridPoint, len(points))
	copy(base, points)
	offsets := [][2]float64{{0.02, 0}, {-0.02, 0}, {0, 0.02}, {0, -0.02}}
	for _, b := range base {
		for _, off := range offsets {
			add(b.lon+off[0], b.lat+off[1])
		}
	}

	return points
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
