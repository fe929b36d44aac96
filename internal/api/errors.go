package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Method  string   `json:"-"`
	Path    string   `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether the backend rejected the bearer token
func (e *APIError) IsUnauthorized() bool {
	return e.Status == 401
}

// TransportError is a request that never produced a usable response:
// connection failures, timeouts and undecodable bodies.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail returns the message together with the underlying cause, for logs
func (e *TransportError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody is the backend's error payload. Fields are decoded loosely
// because validation failures and plain errors use different shapes.
type errorBody struct {
	Message json.RawMessage            `json:"message"`
	Details json.RawMessage            `json:"details"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func (b errorBody) details() []string {
	var out []string
	var list []string
	var single string
	switch {
	case json.Unmarshal(b.Details, &list) == nil:
		out = append(out, list...)
	case json.Unmarshal(b.Details, &single) == nil && single != "":
		out = append(out, single)
	}

	fields := make([]string, 0, len(b.Errors))
	for field := range b.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		var msg string
		if json.Unmarshal(b.Errors[field], &msg) != nil {
			msg = string(b.Errors[field])
		}
		out = append(out, field+": "+msg)
	}
	return out
}
