package geo

import "errors"

var (
	// ErrNoCoordinates means the forward-geocode response carried no usable
	// latitude/longitude pair. Submissions must treat this as fatal.
	ErrNoCoordinates = errors.New("geocode response has no coordinates")
)

// GeocodeError wraps a failed geocoding call with the address that caused it.
type GeocodeError struct {
	Err   error
	Query string
}

func (e *GeocodeError) Error() string {
	if e.Query != "" {
		return "geocode " + e.Query + ": " + e.Err.Error()
	}
	return "geocode: " + e.Err.Error()
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}
