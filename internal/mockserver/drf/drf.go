// Package drf renders error bodies in the Django REST Framework shapes the
// client parses: a single {"detail": "..."} string or a field→messages map.
package drf

import (
	"encoding/json"
	"fmt"
)

// Error implements huma.StatusError so handlers can answer with an exact
// DRF body instead of the default problem document.
type Error struct {
	status int
	body   map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("status %d: %v", e.status, e.body)
}

func (e *Error) GetStatus() int { return e.status }

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.body)
}

// Detail builds a {"detail": "..."} error.
func Detail(status int, detail string) *Error {
	return &Error{status: status, body: map[string]any{"detail": detail}}
}

// Fields builds a field→messages error, e.g. {"name": ["..."]}.
func Fields(status int, fields map[string][]string) *Error {
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		body[k] = v
	}
	return &Error{status: status, body: body}
}
