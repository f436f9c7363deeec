package point

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("collection point not found")
	ErrNameTaken = errors.New("collection point name already in use")
)

// FieldErrors maps form fields to their validation messages. It blocks step
// progression locally and is never sent to the network.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the given field carries an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// AsFieldErrors extracts field-scoped errors from err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
