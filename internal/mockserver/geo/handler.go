// Package geo fakes the geocoding proxy. Results are derived from a hash of
// the query so the same address always lands on the same coordinates.
package geo

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ecomapa/internal/mockserver/drf"
)

type Handler struct {
	log       *slog.Logger
	protected huma.Middlewares
}

func NewHandler(log *slog.Logger, protected huma.Middlewares) *Handler {
	return &Handler{log: log, protected: protected}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.geocodeOp(), h.geocode)
	huma.Register(api, h.reverseOp(), h.reverse)
}

type geocodeInput struct {
	Street       string `query:"street"`
	Number       string `query:"number"`
	Postcode     string `query:"postcode"`
	Neighborhood string `query:"neighborhood"`
}

type geocodeOutput struct {
	Body CoordinatesResponse
}

// CoordinatesResponse carries coordinates as strings, the way the upstream
// provider does.
type CoordinatesResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (h *Handler) geocode(ctx context.Context, input *geocodeInput) (*geocodeOutput, error) {
	if strings.TrimSpace(input.Street) == "" {
		return nil, drf.Detail(http.StatusNotFound, "address not found")
	}

	lat, lon := coordsFor(input.Street, input.Number, input.Postcode, input.Neighborhood)
	h.log.Debug("geocoded address", "street", input.Street, "lat", lat, "lon", lon)

	return &geocodeOutput{Body: CoordinatesResponse{
		Lat: strconv.FormatFloat(lat, 'f', 7, 64),
		Lon: strconv.FormatFloat(lon, 'f', 7, 64),
	}}, nil
}

type reverseInput struct {
	Lat float64 `query:"lat"`
	Lon float64 `query:"lon"`
}

type reverseOutput struct {
	Body AddressResponse
}

// AddressResponse mirrors the Nominatim-style fields the client reads.
type AddressResponse struct {
	DisplayName  string `json:"display_name"`
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Neighborhood string `json:"neighbourhood"`
	Suburb       string `json:"suburb"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
}

func (h *Handler) reverse(ctx context.Context, input *reverseInput) (*reverseOutput, error) {
	n := hashOf(strconv.FormatFloat(input.Lat, 'f', -1, 64), strconv.FormatFloat(input.Lon, 'f', -1, 64))

	road := fmt.Sprintf("Rua %d", n%3000)
	number := strconv.FormatUint(1+n%999, 10)
	suburb := fmt.Sprintf("Bairro %d", n%40)
	postcode := fmt.Sprintf("%05d-%03d", n%99999, n%999)

	return &reverseOutput{Body: AddressResponse{
		DisplayName:  fmt.Sprintf("%s, %s, %s, São Paulo", road, number, suburb),
		Road:         road,
		HouseNumber:  number,
		Neighborhood: suburb,
		Suburb:       suburb,
		City:         "São Paulo",
		Postcode:     postcode,
	}}, nil
}

// coordsFor maps a query to a stable coordinate pair in the São Paulo area.
func coordsFor(parts ...string) (lat, lon float64) {
	n := hashOf(parts...)
	lat = -23.4 - float64(n%400000)/1e6
	lon = -46.4 - float64((n/400000)%400000)/1e6
	return lat, lon
}

func hashOf(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'|'})
	}
	return h.Sum64()
}
