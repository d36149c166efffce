package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func mockGeocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_Geocode(t *testing.T) {
	ts := mockGeocodeServer(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "Sölden, Austria",
			"geometry": {"location": {"lat": 46.9655, "lng": 11.0076}}
		}]
	}`)

	client, err := NewClient("AIza-test", maps.WithBaseURL(ts.URL))
	require.NoError(t, err)

	lat, lng, err := client.Geocode(context.Background(), "Sölden")
	require.NoError(t, err)
	assert.InDelta(t, 46.9655, lat, 1e-9)
	assert.InDelta(t, 11.0076, lng, 1e-9)
}

func TestClient_GeocodeNoResults(t *testing.T) {
	ts := mockGeocodeServer(t, `{"status": "ZERO_RESULTS", "results": []}`)

	client, err := NewClient("AIza-test", maps.WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, _, err = client.Geocode(context.Background(), "nowhere at all")
	assert.Error(t, err)
}

func TestClient_NotInitialized(t *testing.T) {
	_, _, err := (&Client{}).Geocode(context.Background(), "x")
	assert.ErrorContains(t, err, "not initialized")
}
