package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx backend answer. DRF reports either a single detail
// string or a field→messages map; both shapes are kept.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Detail)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("server rejected request (status %d): %v", e.StatusCode, e.Fields)
	}
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// HasFieldError reports whether the backend attributed the failure to the
// given field.
func (e *APIError) HasFieldError(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// IsNotFound reports a 404 answer.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// parseResponse decodes a settled exchange: an error for non-2xx statuses,
// otherwise the body unmarshalled into result when result is non-nil.
func parseResponse(resp *Response, result any) error {
	if !resp.OK() {
		return newAPIError(resp)
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return apiErr
	}

	for field, msg := range raw {
		if field == "detail" {
			var detail string
			if err := json.Unmarshal(msg, &detail); err == nil {
				apiErr.Detail = detail
			}
			continue
		}

		var messages []string
		if err := json.Unmarshal(msg, &messages); err == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[field] = messages
		}
	}

	return apiErr
}
