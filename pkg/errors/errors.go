// Package errors defines the error taxonomy shared by the quoting service.
// Handlers map these types to HTTP statuses at the API boundary; nothing below
// the boundary retries or swallows them.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSubmitters marks a provider success response whose submitter list was
// empty. It is always wrapped in an UpstreamError; match it with errors.Is.
var ErrNoSubmitters = errors.New("signing provider returned no submitter records")

// ConfigurationError means a required setting is absent. Calls that need the
// setting fail fast without attempting any network I/O.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// UpstreamError is a non-success or unreachable external provider. Status is 0
// for transport-level failures. Message carries the provider's own message or
// error field when the body was parseable JSON.
type UpstreamError struct {
	Status  int
	Body    string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("signing provider unreachable: %v", e.Err)
	}
	return fmt.Sprintf("signing provider error: status %d - %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError builds an UpstreamError from a non-success provider
// response, preferring the provider's "message" or "error" JSON field.
func NewUpstreamError(status int, body []byte) *UpstreamError {
	e := &UpstreamError{Status: status, Body: string(body)}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			e.Message = parsed.Message
		} else if parsed.Error != "" {
			e.Message = parsed.Error
		}
	}
	return e
}

// RenderError means a field required by the document layout is missing.
type RenderError struct {
	Field string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render document: missing %s", e.Field)
}

// ValidationError carries field-level violations of the document invariants.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.Violations[0])
}
