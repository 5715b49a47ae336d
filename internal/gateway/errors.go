package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response with a message extracted from a known
// error-body shape.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: api error %d: %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether err wraps a structured API error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// apiErrorFromBody builds an APIError from a response body, trying
// {error:{message}} then {message} before falling back to the HTTP status.
func apiErrorFromBody(status int, body []byte) *APIError {
	msg := extractErrorMessage(body)
	if msg == "" {
		msg = strings.ToLower(http.StatusText(status))
		if msg == "" {
			msg = "request failed"
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

func extractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &nested); err != nil {
		return ""
	}
	if m := strings.TrimSpace(nested.Error.Message); m != "" {
		return m
	}
	return strings.TrimSpace(nested.Message)
}
