package location_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackiefasty/weather-data-visualization-app/internal/models"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/location"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// MockGeocoder implements repositories.GeocodeRepository for testing.
type MockGeocoder struct {
	candidates []models.LocationCandidate
	err        error
	callCount  int
	lastQuery  string
}

func (m *MockGeocoder) Name() string {
	return "mock-geocoder"
}

func (m *MockGeocoder) Search(_ context.Context, query string, _ int) ([]models.LocationCandidate, error) {
	m.callCount++
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func newResolver(geo *MockGeocoder) *location.Resolver {
	logger := observe.NewZapLogger("test-app")
	return location.NewResolver(geo, 5, logger, observe.NewMetricsForTesting())
}

func TestResolve_CommaSeparatedCoordinates(t *testing.T) {
	geo := &MockGeocoder{}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "59.3, 18.0")

	require.NoError(t, err)
	require.NotNil(t, result.Coordinates)
	assert.Equal(t, 59.3, result.Coordinates.Latitude)
	assert.Equal(t, 18.0, result.Coordinates.Longitude)
	assert.Equal(t, 0, geo.callCount, "direct parse must not hit the geocoder")
}

func TestResolve_WhitespaceSeparatedCoordinates(t *testing.T) {
	geo := &MockGeocoder{}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "59.3 18.0")

	require.NoError(t, err)
	require.NotNil(t, result.Coordinates)
	assert.Equal(t, 59.3, result.Coordinates.Latitude)
	assert.Equal(t, 18.0, result.Coordinates.Longitude)
	assert.Equal(t, 0, geo.callCount)
}

func TestResolve_NegativeCoordinates(t *testing.T) {
	geo := &MockGeocoder{}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "-33.9; -70.6")

	require.NoError(t, err)
	require.NotNil(t, result.Coordinates)
	assert.Equal(t, -33.9, result.Coordinates.Latitude)
	assert.Equal(t, -70.6, result.Coordinates.Longitude)
	assert.Equal(t, 0, geo.callCount)
}

func TestResolve_OutOfRangeLatitudeFallsThroughToGeocoding(t *testing.T) {
	geo := &MockGeocoder{candidates: []models.LocationCandidate{
		{Latitude: 59.3, Longitude: 18.0, DisplayName: "Stockholm", Importance: 0.9},
	}}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "200, 18.0")

	require.NoError(t, err)
	assert.Equal(t, 1, geo.callCount, "invalid coordinate pairs must be geocoded as text")
	assert.Equal(t, "200, 18.0", geo.lastQuery)
	require.NotNil(t, result.Coordinates)
}

func TestResolve_EmptyResultIsLocationNotFound(t *testing.T) {
	geo := &MockGeocoder{}
	resolver := newResolver(geo)

	_, err := resolver.Resolve(context.Background(), "nowhere in particular")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLocationNotFound)
}

func TestResolve_SingleCandidateDegeneratesToCoordinates(t *testing.T) {
	geo := &MockGeocoder{candidates: []models.LocationCandidate{
		{Latitude: 57.7, Longitude: 11.97, DisplayName: "Gothenburg, Sweden", Importance: 0.8},
	}}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "Gothenburg")

	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	require.NotNil(t, result.Coordinates)
	assert.Equal(t, 57.7, result.Coordinates.Latitude)
	assert.Equal(t, "Gothenburg, Sweden", result.Coordinates.DisplayName)
}

func TestResolve_MultipleCandidatesSortedByImportance(t *testing.T) {
	geo := &MockGeocoder{candidates: []models.LocationCandidate{
		{DisplayName: "third", Importance: 0.2},
		{DisplayName: "first", Importance: 0.9},
		{DisplayName: "second", Importance: 0.5},
	}}
	resolver := newResolver(geo)

	result, err := resolver.Resolve(context.Background(), "somewhere ambiguous")

	require.NoError(t, err)
	assert.Nil(t, result.Coordinates, "multiple candidates must not be auto-picked")
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "first", result.Candidates[0].DisplayName)
	assert.Equal(t, "second", result.Candidates[1].DisplayName)
	assert.Equal(t, "third", result.Candidates[2].DisplayName)
}

func TestResolve_GeocoderErrorIsWrapped(t *testing.T) {
	geo := &MockGeocoder{err: errors.New("mock geocoder error")}
	resolver := newResolver(geo)

	_, err := resolver.Resolve(context.Background(), "Stockholm")

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrLocationNotFound)
	assert.Contains(t, err.Error(), "mock geocoder error")
}
