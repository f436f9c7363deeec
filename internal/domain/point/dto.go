package point

import "ecomapa/internal/domain/hours"

// CreateRequest is the creation payload for POST /eco-points/collection-point/.
// Coordinates travel as six-decimal strings.
type CreateRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Types          []int          `json:"types"`
	Latitude       string         `json:"latitude"`
	Longitude      string         `json:"longitude"`
	OperatingHours []hours.Record `json:"operating_hours"`
}

// Page is one page of a paginated listing.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Point `json:"results"`
}

// ListFilter narrows the map listing of collection points.
type ListFilter struct {
	Types []int
}
