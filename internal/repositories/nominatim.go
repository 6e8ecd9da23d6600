package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

const (
	NominatimBaseURL = "https://nominatim.openstreetmap.org"

	defaultUserAgent = "WeatherDataVisualizationApp/1.0"

	// The public Nominatim instance allows at most one request per second.
	defaultNominatimRPS = 1.0
)

type NominatimRepository struct {
	BaseURL    string
	UserAgent  string
	httpClient HTTPClient
	limiter    *rate.Limiter
	l          *observe.Logger
}

func NewNominatimRepository(baseURL, userAgent string, rps float64, l *observe.Logger, httpClient HTTPClient) *NominatimRepository {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if rps <= 0 {
		rps = defaultNominatimRPS
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NominatimRepository{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		l:          l,
	}
}

func (n *NominatimRepository) Name() string {
	return "nominatim"
}

// nominatimResult mirrors one entry of the Nominatim search response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

func (n *NominatimRepository) Search(ctx context.Context, query string, limit int) ([]models.LocationCandidate, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"limit":          {strconv.Itoa(limit)},
		"addressdetails": {"1"},
	}
	reqURL := fmt.Sprintf("%s/search?%s", n.BaseURL, params.Encode())

	n.l.Info("making nominatim API request", map[string]any{
		"query": query,
		"limit": limit,
	})

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	candidates := make([]models.LocationCandidate, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			n.l.Warning("skipping candidate with unparseable coordinates", map[string]any{
				"lat":         r.Lat,
				"lon":         r.Lon,
				"displayName": r.DisplayName,
			})
			continue
		}

		candidates = append(candidates, models.LocationCandidate{
			Latitude:    lat,
			Longitude:   lon,
			DisplayName: r.DisplayName,
			Importance:  r.Importance,
			Kind:        r.Type,
		})
	}

	n.l.Info("parsed nominatim response", map[string]any{
		"query":      query,
		"candidates": len(candidates),
	})

	return candidates, nil
}
