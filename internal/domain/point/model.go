package point

import (
	"ecomapa/internal/domain/geo"
	"ecomapa/internal/domain/hours"
)

const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
)

// Image is a local image reference queued for upload after the point is
// created. URI points at a file on the device.
type Image struct {
	URI      string
	Filename string
	Mime     string
}

// Draft is the in-memory state of one submission wizard run. It holds either
// explicit coordinates or the structured address group, never needs both.
type Draft struct {
	Name        string
	Description string
	Types       []int
	Images      []Image

	Coordinates *geo.Coordinates
	Address     geo.StreetAddress

	Hours hours.Schedule
}

// HasCoordinates reports whether the draft entered the wizard with an
// explicit map location, which skips the address step entirely.
func (d *Draft) HasCoordinates() bool {
	return d.Coordinates != nil
}

// Point is a collection point as the backend returns it.
type Point struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Latitude       string         `json:"latitude"`
	Longitude      string         `json:"longitude"`
	Types          []int          `json:"types"`
	OperatingHours []hours.Record `json:"operating_hours"`
	Images         []string       `json:"images,omitempty"`
	Status         string         `json:"status,omitempty"`
}

// Category is a collection-type a point can accept.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is the authenticated account's profile.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
}
