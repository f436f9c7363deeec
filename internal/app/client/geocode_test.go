package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ecomapa/internal/app/client/config"
	"ecomapa/internal/domain/geo"
)

func newTestGateway(t *testing.T, baseURL string) *GeocodingGateway {
	t.Helper()
	storage := newTestStorage(t)
	tokens := NewTokenStore(storage)
	cfg := &config.Config{Env: config.EnvLocal, APIURL: baseURL}
	session := NewSessionClient(cfg, tokens, slog.Default())
	return NewGeocodingGateway(session, storage, slog.Default())
}

func TestForward_ParsesStringCoordinates(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"street":       r.URL.Query().Get("street"),
			"number":       r.URL.Query().Get("number"),
			"postcode":     r.URL.Query().Get("postcode"),
			"neighborhood": r.URL.Query().Get("neighborhood"),
		}
		// The provider answers with quoted numbers
		json.NewEncoder(w).Encode(map[string]string{"lat": "-23.5505", "lon": "-46.6333"})
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	coords, err := gateway.Forward(context.Background(), geo.StreetAddress{
		Street:       "Rua Vergueiro",
		Number:       "2292",
		Postcode:     "04102-000",
		Neighborhood: "Vila Mariana",
	})
	require.NoError(t, err)
	assert.InDelta(t, -23.5505, coords.Latitude, 1e-9)
	assert.InDelta(t, -46.6333, coords.Longitude, 1e-9)
	assert.Equal(t, map[string]string{
		"street":       "Rua Vergueiro",
		"number":       "2292",
		"postcode":     "04102-000",
		"neighborhood": "Vila Mariana",
	}, gotQuery)
}

func TestForward_ParsesNumericCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"lat": -23.5505, "lon": -46.6333})
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	coords, err := gateway.Forward(context.Background(), geo.StreetAddress{Street: "Rua Vergueiro"})
	require.NoError(t, err)
	assert.InDelta(t, -23.5505, coords.Latitude, 1e-9)
}

func TestForward_MissingCoordinatesIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"lat": "-23.5505"})
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	_, err := gateway.Forward(context.Background(), geo.StreetAddress{Street: "Rua Sem Saída"})
	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrNoCoordinates)

	var geocodeErr *geo.GeocodeError
	assert.ErrorAs(t, err, &geocodeErr)
}

func TestForward_ServerErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	_, err := gateway.Forward(context.Background(), geo.StreetAddress{Street: "Rua Vergueiro"})

	var geocodeErr *geo.GeocodeError
	require.ErrorAs(t, err, &geocodeErr)
}

func TestReverse_CacheLaw(t *testing.T) {
	// Two calls with identical coordinates make exactly one network call.
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "-23.5505199999", r.URL.Query().Get("lat"))
		json.NewEncoder(w).Encode(geo.Address{
			DisplayName: "Rua Vergueiro, Vila Mariana, São Paulo",
			Road:        "Rua Vergueiro",
			Suburb:      "Vila Mariana",
		})
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	ctx := context.Background()

	first, err := gateway.Reverse(ctx, -23.5505199999, -46.63330805)
	require.NoError(t, err)
	assert.Equal(t, "Rua Vergueiro", first.Road)
	assert.Equal(t, int32(1), calls.Load())

	second, err := gateway.Reverse(ctx, -23.5505199999, -46.63330805)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second lookup must be served from cache")
}

func TestReverse_DifferentCoordinatesMiss(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(geo.Address{DisplayName: "somewhere"})
	}))
	defer server.Close()

	gateway := newTestGateway(t, server.URL)
	ctx := context.Background()

	_, err := gateway.Reverse(ctx, -23.55052, -46.63331)
	require.NoError(t, err)
	_, err = gateway.Reverse(ctx, -23.55052, -46.63332)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReverse_CacheSurvivesGatewayRestart(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(geo.Address{DisplayName: "cached place"})
	}))
	defer server.Close()

	storage := newTestStorage(t)
	tokens := NewTokenStore(storage)
	cfg := &config.Config{Env: config.EnvLocal, APIURL: server.URL}
	session := NewSessionClient(cfg, tokens, slog.Default())

	first := NewGeocodingGateway(session, storage, slog.Default())
	_, err := first.Reverse(context.Background(), 1.5, 2.5)
	require.NoError(t, err)

	// A fresh gateway over the same storage still hits the cache
	second := NewGeocodingGateway(session, storage, slog.Default())
	addr, err := second.Reverse(context.Background(), 1.5, 2.5)
	require.NoError(t, err)
	assert.Equal(t, "cached place", addr.DisplayName)
	assert.Equal(t, int32(1), calls.Load())
}
