package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/forecast"
)

const minQueryLength = 2

// SearchResponse lists geocoding candidates, best match first.
type SearchResponse struct {
	Results []models.LocationCandidate `json:"results"`
}

// WeatherResponse carries the canonical series plus the aggregated view at
// the effective resolution.
type WeatherResponse struct {
	ApprovedTime   string                   `json:"approved_time,omitempty"`
	ReferenceTime  string                   `json:"reference_time,omitempty"`
	Latitude       float64                  `json:"latitude" example:"59.3251"`
	Longitude      float64                  `json:"longitude" example:"18.0711"`
	Location       string                   `json:"location,omitempty" example:"Stockholm, Sweden"`
	SkippedEntries int                      `json:"skipped_entries,omitempty"`
	TimeSeries     models.ForecastSeries    `json:"time_series"`
	Resolution     string                   `json:"resolution" example:"daily"`
	Aggregated     []models.AggregatedPoint `json:"aggregated"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

func parseCoordinateParams(c *fiber.Ctx) (lat, lon float64, err error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" {
		return 0, 0, errors.New("Missing required parameter: lat")
	}
	if lonStr == "" {
		return 0, 0, errors.New("Missing required parameter: lon")
	}

	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, errors.New("Invalid latitude format")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, errors.New("Latitude must be between -90 and 90")
	}

	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, errors.New("Invalid longitude format")
	}
	if lon < -180 || lon > 180 {
		return 0, 0, errors.New("Longitude must be between -180 and 180")
	}

	return lat, lon, nil
}

// handleSearch godoc
// @Summary Search for locations
// @Description Resolves a free-text query (address, city, ZIP or coordinate pair) to ranked location candidates
// @Tags Location
// @Produce json
// @Param q query string true "Address, city, coordinates or location string" minLength(2) example(Stockholm)
// @Success 200 {object} SearchResponse "Candidates sorted by importance, best first"
// @Failure 400 {object} ErrorResponse "Bad request - query too short"
// @Failure 404 {object} ErrorResponse "No locations found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/search [get]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < minQueryLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("Query must be at least %d characters", minQueryLength),
		})
	}

	result, err := r.resolver.Resolve(c.Context(), query)
	if err != nil {
		if errors.Is(err, models.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "No locations found"})
		}

		r.l.Error(err, map[string]any{"query": query})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Location search failed"})
	}

	results := result.Candidates
	if results == nil && result.Coordinates != nil {
		// Direct coordinate parse: shape the pair like a candidate list.
		results = []models.LocationCandidate{{
			Latitude:    result.Coordinates.Latitude,
			Longitude:   result.Coordinates.Longitude,
			DisplayName: result.Coordinates.DisplayName,
		}}
	}

	return c.JSON(SearchResponse{Results: results})
}

// handleWeather godoc
// @Summary Get cloud cover and lightning forecast
// @Description Retrieves the normalized cloud cover / lightning probability forecast for coordinates. SMHI covers the Nordic region; locations far from Sweden may have no data.
// @Tags Weather
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(59.3251)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(18.0711)
// @Param resolution query string false "Aggregation resolution (hourly, daily or monthly; default hourly)" Enums(hourly, daily, monthly)
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Forecast unavailable"
// @Router /api/weather [get]
func (r *routes) handleWeather(c *fiber.Ctx) error {
	lat, lon, err := parseCoordinateParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	resolution, err := forecast.ParseResolution(c.Query("resolution"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return r.respondWithForecast(c, lat, lon, "", resolution)
}

// handleWeatherByAddress godoc
// @Summary Get forecast for an address
// @Description Resolves the query to coordinates and returns the forecast for the best matching location
// @Tags Weather
// @Produce json
// @Param q query string true "Address, city, coordinates or location string" minLength(2) example(Stockholm)
// @Param resolution query string false "Aggregation resolution (hourly, daily or monthly; default hourly)" Enums(hourly, daily, monthly)
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "Location not found"
// @Failure 502 {object} ErrorResponse "Forecast unavailable"
// @Router /api/weather/by-address [get]
func (r *routes) handleWeatherByAddress(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < minQueryLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("Query must be at least %d characters", minQueryLength),
		})
	}

	resolution, err := forecast.ParseResolution(c.Query("resolution"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	result, err := r.resolver.Resolve(c.Context(), query)
	if err != nil {
		if errors.Is(err, models.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Location not found"})
		}

		r.l.Error(err, map[string]any{"query": query})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Location search failed"})
	}

	coords := result.Coordinates
	if coords == nil {
		best := result.Candidates[0]
		coords = &models.Coordinates{
			Latitude:    best.Latitude,
			Longitude:   best.Longitude,
			DisplayName: best.DisplayName,
		}
	}

	return r.respondWithForecast(c, coords.Latitude, coords.Longitude, coords.DisplayName, resolution)
}

func (r *routes) respondWithForecast(c *fiber.Ctx, lat, lon float64, locationName string, resolution forecast.Resolution) error {
	f, err := r.forecasts.GetForecast(c.Context(), lat, lon)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": lat, "lon": lon})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Forecast unavailable for this location",
		})
	}

	aggregated, effective := forecast.Aggregate(f.Series, resolution)

	return c.JSON(WeatherResponse{
		ApprovedTime:   f.ApprovedTime,
		ReferenceTime:  f.ReferenceTime,
		Latitude:       f.Latitude,
		Longitude:      f.Longitude,
		Location:       locationName,
		SkippedEntries: f.SkippedEntries,
		TimeSeries:     f.Series,
		Resolution:     string(effective),
		Aggregated:     aggregated,
	})
}

// handlePatterns godoc
// @Summary Get atmospheric pattern probabilities
// @Description Runs the trained atmospheric pattern model over the forecast for a location
// @Tags Patterns
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(59.3251)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(18.0711)
// @Success 200 {object} models.PatternResult "Pattern probabilities, convective risk and summary"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} ErrorResponse "Forecast unavailable"
// @Failure 503 {object} ErrorResponse "Pattern model unavailable"
// @Router /api/ai-patterns [get]
func (r *routes) handlePatterns(c *fiber.Ctx) error {
	lat, lon, err := parseCoordinateParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	payload, err := r.forecasts.FetchRaw(c.Context(), lat, lon)
	if err != nil {
		r.l.Error(err, map[string]any{"lat": lat, "lon": lon})

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "Forecast unavailable for this location",
		})
	}

	result, err := r.classifier.AnalyzeForecast(payload)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrModelUnavailable):
			// Soft failure: forecast and charts stay usable without patterns.
			r.l.Warning("pattern model unavailable", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Error: "Pattern analysis temporarily unavailable",
			})
		case models.IsMalformedForecast(err):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: "Forecast unavailable for this location",
			})
		default:
			r.l.Error(err, map[string]any{"lat": lat, "lon": lon})
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Pattern analysis failed",
			})
		}
	}

	return c.JSON(result)
}
