package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors classifying fetch failures. Tool handlers use these
// (via errors.Is) to pick the right error surface; anything that doesn't
// match is an upstream transport/auth failure.
var (
	// ErrNotFound means the referenced issue, sprint, board, project or
	// user does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery means Jira rejected the request as malformed,
	// typically a bad JQL expression (HTTP 400).
	ErrInvalidQuery = errors.New("invalid query")
)

// APIError is a non-2xx response from the Jira API. It unwraps to
// ErrNotFound or ErrInvalidQuery for the status codes those represent,
// so callers can classify with errors.Is without inspecting codes.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("jira: %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("jira: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidQuery
	}
	return nil
}

// errorBody is Jira's standard error envelope.
type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// apiMessage extracts a human-readable message from an error response
// body. Returns empty string when the body isn't Jira's error shape.
func apiMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	parts := eb.ErrorMessages
	for field, msg := range eb.Errors {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}
