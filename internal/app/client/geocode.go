package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/geo"
)

// GeocodingGateway resolves structured addresses to coordinates through the
// backend, and coordinates back to addresses with a durable cache in front.
// Concurrent lookups for the same coordinates are not deduplicated; at worst
// the same answer is fetched twice.
type GeocodingGateway struct {
	session *SessionClient
	cache   *SQLiteStorage
	log     *slog.Logger
}

func NewGeocodingGateway(session *SessionClient, cache *SQLiteStorage, log *slog.Logger) *GeocodingGateway {
	return &GeocodingGateway{session: session, cache: cache, log: log}
}

// flexFloat decodes a coordinate that the provider may send as either a
// JSON number or a quoted string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("empty coordinate")
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// Forward resolves a street address to coordinates. A response without both
// coordinate fields is a hard failure: the caller must not create a point.
func (g *GeocodingGateway) Forward(ctx context.Context, addr geo.StreetAddress) (geo.Coordinates, error) {
	query := url.Values{
		"street":       []string{addr.Street},
		"number":       []string{addr.Number},
		"postcode":     []string{addr.Postcode},
		"neighborhood": []string{addr.Neighborhood},
	}

	resp, err := g.session.Request(ctx, http.MethodGet, "/geo-code/geocode/", nil, query)
	if err != nil {
		return geo.Coordinates{}, &geo.GeocodeError{Err: err, Query: addr.Street}
	}

	var result struct {
		Lat *flexFloat `json:"lat"`
		Lon *flexFloat `json:"lon"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return geo.Coordinates{}, &geo.GeocodeError{Err: err, Query: addr.Street}
	}

	if result.Lat == nil || result.Lon == nil {
		return geo.Coordinates{}, &geo.GeocodeError{Err: geo.ErrNoCoordinates, Query: addr.Street}
	}

	coords := geo.Coordinates{
		Latitude:  float64(*result.Lat),
		Longitude: float64(*result.Lon),
	}
	g.log.Debug("address geocoded", "street", addr.Street, "lat", coords.Latitude, "lon", coords.Longitude)
	return coords, nil
}

// Reverse resolves coordinates to a structured address. The cache key uses
// the literal received values; entries never expire.
func (g *GeocodingGateway) Reverse(ctx context.Context, lat, lon float64) (geo.Address, error) {
	key := geo.CacheKey(lat, lon)

	if cached, ok, err := g.cache.Get(ctx, key); err != nil {
		return geo.Address{}, err
	} else if ok {
		var addr geo.Address
		if err := json.Unmarshal([]byte(cached), &addr); err == nil {
			g.log.Debug("reverse geocode served from cache", "key", key)
			return addr, nil
		}
		// Unreadable entry: fall through and refetch
	}

	query := url.Values{
		"lat": []string{strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": []string{strconv.FormatFloat(lon, 'f', -1, 64)},
	}

	resp, err := g.session.Request(ctx, http.MethodGet, "/geo-code/reverse-geocode/", nil, query)
	if err != nil {
		return geo.Address{}, &geo.GeocodeError{Err: err, Query: key}
	}

	var addr geo.Address
	if err := parseResponse(resp, &addr); err != nil {
		return geo.Address{}, &geo.GeocodeError{Err: err, Query: key}
	}

	encoded, err := json.Marshal(addr)
	if err == nil {
		if err := g.cache.Set(ctx, key, string(encoded)); err != nil {
			g.log.Debug("failed to cache reverse geocode result", "key", key, "error", err)
		}
	}

	return addr, nil
}
