package geo

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) geocodeOp() huma.Operation {
	return huma.Operation{
		OperationID: "geo-geocode",
		Method:      http.MethodGet,
		Path:        "/geo-code/geocode/",
		Summary:     "Resolve a structured address to coordinates",
		Tags:        []string{"geo"},
		Middlewares: h.protected,
	}
}

func (h *Handler) reverseOp() huma.Operation {
	return huma.Operation{
		OperationID: "geo-reverse-geocode",
		Method:      http.MethodGet,
		Path:        "/geo-code/reverse-geocode/",
		Summary:     "Resolve coordinates to an address",
		Tags:        []string{"geo"},
		Middlewares: h.protected,
	}
}
