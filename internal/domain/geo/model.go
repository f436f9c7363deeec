package geo

import (
	"context"
	"fmt"
	"strconv"
)

// Coordinates in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// StreetAddress is the structured address group the submission form collects.
// All four fields are required as a group whenever coordinates are absent.
type StreetAddress struct {
	Street       string
	Number       string
	Postcode     string
	Neighborhood string
}

// Address is the structured result of a reverse-geocode lookup. The backend
// proxies a Nominatim-style provider, so most fields are best-effort.
type Address struct {
	DisplayName  string `json:"display_name"`
	Road         string `json:"road,omitempty"`
	HouseNumber  string `json:"house_number,omitempty"`
	Neighborhood string `json:"neighbourhood,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	City         string `json:"city,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
}

// Geocoder resolves structured addresses to coordinates and back.
type Geocoder interface {
	Forward(ctx context.Context, addr StreetAddress) (Coordinates, error)
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
}

// Round6 rounds a coordinate to the 6-decimal precision the backend stores.
func Round6(v float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 6, 64), 64)
	return rounded
}

// Format6 renders a coordinate with exactly six decimals, the wire form the
// creation payload uses.
func Format6(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// CacheKey is the reverse-geocode cache key for the literal coordinate pair
// as received, without re-rounding.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("address_%s_%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
}
