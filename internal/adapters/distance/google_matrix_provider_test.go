package distance

import (
	"context"
	"crossing-delta/internal/domain"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const okBody = `{
  "destination_addresses": ["Murphy Ave, Sunnyvale, CA"],
  "origin_addresses": ["a", "b", "c"],
  "rows": [
    {"elements": [{"distance": {"text": "1.2 km", "value": 1234}, "duration": {"text": "3 mins", "value": 181}, "status": "OK"}]},
    {"elements": [{"status": "ZERO_RESULTS"}]},
    {"elements": [{"distance": {"text": "2 km", "value": 2000}, "duration": {"text": "5 mins", "value": 300}, "status": "OK"}]}
  ],
  "status": "OK"
}`

func newTestProvider(t *testing.T, h http.HandlerFunc) *GoogleMatrixProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGoogleMatrixProvider("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return p
}

func TestGoogleGetDistancesPartial(t *testing.T) {
	origins := []domain.Coordinates{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3.5, Lon: -3}}

	var gotQuery map[string]string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origins":      q.Get("origins"),
			"destinations": q.Get("destinations"),
			"key":          q.Get("key"),
			"mode":         q.Get("mode"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(okBody))
	})

	dest := domain.Destination{Name: "murphy", Coordinates: domain.Coordinates{Lat: 37.375404, Lon: -122.030125}}
	res, err := p.GetDistances(context.Background(), origins, dest)

	var ue *domain.UnresolvedError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, map[domain.CoordKey]string{"2,2": "ZERO_RESULTS"}, ue.Statuses)

	require.Equal(t, map[domain.CoordKey]domain.TravelMeasurement{
		"1,1":    {DistanceMeters: 1234, DurationSeconds: 181},
		"3.5,-3": {DistanceMeters: 2000, DurationSeconds: 300},
	}, res)

	require.Equal(t, map[string]string{
		"origins":      "1,1|2,2|3.5,-3",
		"destinations": "37.375404,-122.030125",
		"key":          "test-key",
		"mode":         "driving",
	}, gotQuery)
}

func TestGoogleGetDistanceSingle(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"OK","distance":{"value":510},"duration":{"value":62}}]}]}`))
	})

	got, err := p.GetDistance(context.Background(), domain.Coordinates{Lat: 37.379009, Lon: -122.033777}, domain.Destination{Name: "murphy"})
	require.NoError(t, err)
	require.Equal(t, domain.TravelMeasurement{DistanceMeters: 510, DurationSeconds: 62}, got)
}

func TestGoogleGetDistancesErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantConfig bool
		wantStatus string
	}{
		{name: "denied key", status: 200, body: `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","rows":[]}`, wantConfig: true},
		{name: "quota", status: 200, body: `{"status":"OVER_QUERY_LIMIT","rows":[]}`, wantStatus: "OVER_QUERY_LIMIT"},
		{name: "http error", status: 503, body: `unavailable`, wantStatus: "HTTP 503"},
		{name: "garbage", status: 200, body: `<html>`, wantStatus: "INVALID_RESPONSE"},
		{name: "row count", status: 200, body: `{"status":"OK","rows":[]}`, wantStatus: "INVALID_RESPONSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			res, err := p.GetDistances(context.Background(), []domain.Coordinates{{Lat: 1, Lon: 1}}, domain.Destination{Name: "x"})
			require.Nil(t, res)
			require.Error(t, err)
			require.NotContains(t, err.Error(), "test-key")

			if tt.wantConfig {
				var ce *domain.ConfigurationError
				require.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
				return
			}
			var re *domain.ResolverError
			require.True(t, errors.As(err, &re), "want ResolverError, got %v", err)
			require.Equal(t, tt.wantStatus, re.Status)
		})
	}
}

func TestGoogleGetDistancesPrecondition(t *testing.T) {
	p, err := NewGoogleMatrixProvider("k")
	require.NoError(t, err)

	origins := make([]domain.Coordinates, 26)
	require.Panics(t, func() {
		p.GetDistances(context.Background(), origins, domain.Destination{Name: "x"})
	})
}

func TestGoogleGetDistancesEmptyMakesNoRequest(t *testing.T) {
	calls := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	res, err := p.GetDistances(context.Background(), nil, domain.Destination{Name: "x"})
	require.NoError(t, err)
	require.Empty(t, res)
	require.Zero(t, calls)
}

func TestNewGoogleMatrixProviderEmptyKey(t *testing.T) {
	_, err := NewGoogleMatrixProvider("  ")
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	require.True(t, strings.Contains(ce.Error(), "GOOGLE_MAPS_API_KEY"))
}
