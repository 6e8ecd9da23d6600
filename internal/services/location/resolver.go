package location

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/internal/repositories"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// Coordinate pairs separated by a comma/semicolon or by whitespace, e.g.
// "59.3, 18.0" or "58.0 16.0".
var coordinatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(-?\d+\.?\d*)\s*[,;]\s*(-?\d+\.?\d*)$`),
	regexp.MustCompile(`^(-?\d+\.?\d*)\s+(-?\d+\.?\d*)$`),
}

const defaultCandidateLimit = 5

// Resolver turns free-text queries into coordinates or ranked candidates.
type Resolver struct {
	geo            repositories.GeocodeRepository
	candidateLimit int
	l              *observe.Logger
	m              *observe.Metrics
}

func NewResolver(geo repositories.GeocodeRepository, candidateLimit int, l *observe.Logger, m *observe.Metrics) *Resolver {
	if candidateLimit <= 0 {
		candidateLimit = defaultCandidateLimit
	}

	return &Resolver{
		geo:            geo,
		candidateLimit: candidateLimit,
		l:              l,
		m:              m,
	}
}

// Result carries either a directly resolved coordinate pair, a ranked
// candidate list, or both: when exactly one candidate matches, Coordinates
// is populated alongside it so the caller can skip the pick step.
type Result struct {
	Coordinates *models.Coordinates
	Candidates  []models.LocationCandidate
}

// Resolve tries the direct coordinate parse first and only then delegates
// to the geocoding service. Candidates come back sorted descending by
// importance. An empty geocoding result is ErrLocationNotFound, which the
// caller must surface differently from a forecast-fetch failure. The
// resolver does not filter candidates by forecast coverage; geocoding and
// forecast coverage stay independently testable.
func (r *Resolver) Resolve(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)

	if coords, ok := parseCoordinates(query); ok {
		r.m.GeocodeRequests.WithLabelValues("direct").Inc()
		r.l.Debug("query parsed as coordinates", map[string]any{
			"lat": coords.Latitude,
			"lon": coords.Longitude,
		})
		return Result{Coordinates: coords}, nil
	}

	candidates, err := r.geo.Search(ctx, query, r.candidateLimit)
	if err != nil {
		r.m.GeocodeRequests.WithLabelValues("error").Inc()
		return Result{}, errors.Wrapf(err, "geocode %q via %s", query, r.geo.Name())
	}

	if len(candidates) == 0 {
		r.m.GeocodeRequests.WithLabelValues("empty").Inc()
		return Result{}, models.ErrLocationNotFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Importance > candidates[j].Importance
	})

	result := Result{Candidates: candidates}
	if len(candidates) == 1 {
		result.Coordinates = &models.Coordinates{
			Latitude:    candidates[0].Latitude,
			Longitude:   candidates[0].Longitude,
			DisplayName: candidates[0].DisplayName,
		}
	}

	r.m.GeocodeRequests.WithLabelValues("success").Inc()

	return result, nil
}

// parseCoordinates matches "lat, lon" / "lat lon" pairs. Pairs outside the
// valid latitude/longitude ranges do not match; they fall through to
// geocoding like any other text.
func parseCoordinates(query string) (*models.Coordinates, bool) {
	for _, pattern := range coordinatePatterns {
		m := pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}

		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		return &models.Coordinates{
			Latitude:    lat,
			Longitude:   lon,
			DisplayName: fmt.Sprintf("Coordinates: %g, %g", lat, lon),
		}, true
	}

	return nil, false
}
