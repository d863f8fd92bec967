package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the FitFlow API.
type APIError struct {
	Method string
	Route  string
	Status int
	Codes  []string
}

// Error implements error.
func (e *APIError) Error() string {
	if len(e.Codes) == 0 {
		return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Route, e.Status)
	}
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Route, e.Status, strings.Join(e.Codes, ", "))
}

// ErrorCodes returns the backend error codes, first code first.
func (e *APIError) ErrorCodes() []string {
	return e.Codes
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// parseCodes extracts error codes from a response body.
// The API answers with a JSON array of codes; a bare JSON string and a
// {"errors": [...]} object are accepted too. Anything else yields no codes.
func parseCodes(body []byte) []string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		return nonEmpty(list)
	}
	var single string
	if err := json.Unmarshal(body, &single); err == nil {
		return nonEmpty([]string{single})
	}
	var obj struct {
		Errors []string `json:"errors"`
		Code   string   `json:"code"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if len(obj.Errors) > 0 {
			return nonEmpty(obj.Errors)
		}
		return nonEmpty([]string{obj.Code})
	}
	return nil
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
