package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/pkg/logger"
	"resident-request-service/pkg/metrics"
)

var testLog = logger.NewNopLogger()

// One registry per test binary; promauto panics on duplicate registration
var repoTestMetrics = metrics.NewMetrics("repository_test")

func newPlacesServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *GooglePlacesRepository) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	repo := NewGooglePlacesRepository(server.URL, "test-key", 100, 100, testLog, repoTestMetrics).(*GooglePlacesRepository)
	return server, repo
}

func TestAutocompleteParsesPredictions(t *testing.T) {
	var gotQuery, gotToken string
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/autocomplete/json", r.URL.Path)
		gotQuery = r.URL.Query().Get("input")
		gotToken = r.URL.Query().Get("sessiontoken")
		assert.Equal(t, "address", r.URL.Query().Get("types"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{
			"status": "OK",
			"predictions": [
				{"place_id": "p-1", "description": "1600 Amphitheatre Pkwy, Mountain View, CA"},
				{"place_id": "p-2", "description": "1600 Pennsylvania Ave, Washington, DC"}
			]
		}`))
	})

	suggestions, err := repo.Autocomplete(context.Background(), "1600 Amphitheatre", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "1600 Amphitheatre", gotQuery)
	assert.Equal(t, "tok-1", gotToken)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "p-1", suggestions[0].ID)
	assert.Equal(t, "1600 Amphitheatre Pkwy, Mountain View, CA", suggestions[0].DisplayText)
}

func TestAutocompleteZeroResultsIsEmptyNotError(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "predictions": []}`))
	})

	suggestions, err := repo.Autocomplete(context.Background(), "zzzzzz", "tok-1")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestAutocompleteProviderErrorMapsToNetwork(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "error_message": "quota exceeded"}`))
	})

	_, err := repo.Autocomplete(context.Background(), "100 Main", "tok-1")
	require.Error(t, err)
	assert.Equal(t, entity.KindNetwork, entity.KindOf(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestPlaceDetailsParsesComponents(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p-1", r.URL.Query().Get("place_id"))
		assert.Equal(t, "tok-1", r.URL.Query().Get("sessiontoken"))

		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
				"address_components": [
					{"long_name": "1600", "short_name": "1600", "types": ["street_number"]},
					{"long_name": "Amphitheatre Parkway", "short_name": "Amphitheatre Pkwy", "types": ["route"]},
					{"long_name": "Suite 200", "short_name": "200", "types": ["subpremise"]},
					{"long_name": "Mountain View", "short_name": "Mountain View", "types": ["locality", "political"]},
					{"long_name": "California", "short_name": "CA", "types": ["administrative_area_level_1", "political"]},
					{"long_name": "94043", "short_name": "94043", "types": ["postal_code"]},
					{"long_name": "United States", "short_name": "US", "types": ["country", "political"]}
				],
				"geometry": {"location": {"lat": 37.4224, "lng": -122.0842}}
			}
		}`))
	})

	address, err := repo.PlaceDetails(context.Background(), "p-1", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "1600 Amphitheatre Parkway", address.Line1)
	assert.Equal(t, "Suite 200", address.Unit)
	assert.Equal(t, "Mountain View", address.City)
	assert.Equal(t, "CA", address.State, "state uses the short form")
	assert.Equal(t, "94043", address.PostalCode)
	assert.Equal(t, "US", address.Country)
	assert.Equal(t, "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA", address.FullText)
	require.NotNil(t, address.Latitude)
	require.NotNil(t, address.Longitude)
	assert.InDelta(t, 37.4224, *address.Latitude, 0.0001)
	assert.InDelta(t, -122.0842, *address.Longitude, 0.0001)
	assert.True(t, address.HasMinimumFields())
}

func TestPlaceDetailsMissingComponentsStayEmpty(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"formatted_address": "Somewhere",
				"address_components": [
					{"long_name": "Austin", "short_name": "Austin", "types": ["locality"]}
				],
				"geometry": {"location": {"lat": 0, "lng": 0}}
			}
		}`))
	})

	address, err := repo.PlaceDetails(context.Background(), "p-1", "tok-1")
	require.NoError(t, err)
	assert.Empty(t, address.Line1)
	assert.Equal(t, "Austin", address.City)
	assert.False(t, address.HasMinimumFields())
}

func TestPlaceDetailsNotFound(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "NOT_FOUND"}`))
	})

	_, err := repo.PlaceDetails(context.Background(), "p-gone", "tok-1")
	assert.Equal(t, entity.KindNotFound, entity.KindOf(err))
}

func TestPlacesCallsAreCounted(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "predictions": []}`))
	})

	before := testutil.ToFloat64(repoTestMetrics.PlacesCallsTotal.WithLabelValues("autocomplete"))
	_, err := repo.Autocomplete(context.Background(), "100 Main", "tok-1")
	require.NoError(t, err)
	after := testutil.ToFloat64(repoTestMetrics.PlacesCallsTotal.WithLabelValues("autocomplete"))
	assert.Equal(t, before+1, after)

	_, detailsRepo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "NOT_FOUND"}`))
	})

	before = testutil.ToFloat64(repoTestMetrics.PlacesCallsTotal.WithLabelValues("details"))
	detailsRepo.PlaceDetails(context.Background(), "p-1", "tok-1")
	after = testutil.ToFloat64(repoTestMetrics.PlacesCallsTotal.WithLabelValues("details"))
	assert.Equal(t, before+1, after, "the metered call is counted even when the lookup misses")
}

func TestPlacesHTTPFailureMapsToNetwork(t *testing.T) {
	_, repo := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := repo.Autocomplete(context.Background(), "100 Main", "tok-1")
	assert.Equal(t, entity.KindNetwork, entity.KindOf(err))
}
