package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Stockholm", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))

		fmt.Fprint(w, `[
			{"lat": "59.3251172", "lon": "18.0710935", "display_name": "Stockholm, Sweden", "type": "city", "importance": 0.92},
			{"lat": "59.35", "lon": "17.95", "display_name": "Stockholm County, Sweden", "type": "administrative", "importance": 0.71}
		]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	candidates, err := repo.Search(context.Background(), "Stockholm", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, 59.3251172, candidates[0].Latitude)
	assert.Equal(t, 18.0710935, candidates[0].Longitude)
	assert.Equal(t, "Stockholm, Sweden", candidates[0].DisplayName)
	assert.Equal(t, "city", candidates[0].Kind)
	assert.Equal(t, 0.92, candidates[0].Importance)
}

func TestNominatimSearch_SendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "weather-viz/test", 100, testLogger(), nil)

	_, err := repo.Search(context.Background(), "Stockholm", 5)
	require.NoError(t, err)
	assert.Equal(t, "weather-viz/test", agent)
}

func TestNominatimSearch_DefaultUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	_, err := repo.Search(context.Background(), "Stockholm", 5)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, agent)
}

func TestNominatimSearch_SkipsUnparseableCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"lat": "not-a-number", "lon": "18.0", "display_name": "broken", "type": "city", "importance": 0.9},
			{"lat": "59.3", "lon": "18.0", "display_name": "Stockholm, Sweden", "type": "city", "importance": 0.8}
		]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	candidates, err := repo.Search(context.Background(), "Stockholm", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Stockholm, Sweden", candidates[0].DisplayName)
}

func TestNominatimSearch_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	candidates, err := repo.Search(context.Background(), "nowhere", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestNominatimSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	_, err := repo.Search(context.Background(), "Stockholm", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestNominatimSearch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected": "object"}`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	_, err := repo.Search(context.Background(), "Stockholm", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON response")
}

func TestNominatimSearch_CanceledContextStopsRateLimitWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	repo := NewNominatimRepository(server.URL, "", 100, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Search(ctx, "Stockholm", 5)
	require.Error(t, err)
}
