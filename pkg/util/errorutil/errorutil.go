package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewConfigurationInvalid reports a missing or unusable configuration value.
// Raised before any network call is made.
func NewConfigurationInvalid(message string, details map[string]any) error {
	return NewDomainError("CONFIGURATION_INVALID", message, http.StatusBadRequest, details)
}

// NewUpstreamAuthFailed reports rejected credentials at an upstream service.
func NewUpstreamAuthFailed(upstream string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_AUTH_FAILED",
		Message:    fmt.Sprintf("%s rejected the configured credentials", upstream),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUpstreamNotFound reports a missing resource at an upstream service.
func NewUpstreamNotFound(resource string, details map[string]any) error {
	return &DomainError{
		Code:       "UPSTREAM_NOT_FOUND",
		Message:    fmt.Sprintf("%s not found upstream", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUpstreamUnavailable reports a rate limit or server-side failure upstream.
func NewUpstreamUnavailable(upstream string, status int, body string) error {
	return &DomainError{
		Code:       "UPSTREAM_RATE_LIMITED",
		Message:    fmt.Sprintf("%s returned status %d", upstream, status),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"upstream_status": status, "body": body},
	}
}

// NewAllEndpointsFailed reports exhaustion of every candidate URL and endpoint
// shape of the local model server. The attempted URL list and the last
// underlying error are preserved for diagnostics and must be surfaced to the
// end user verbatim.
func NewAllEndpointsFailed(attempted []string, last error, suggestions []string) error {
	details := map[string]any{"attempted_urls": attempted}
	if len(suggestions) > 0 {
		details["suggestions"] = suggestions
	}
	return &DomainError{
		Code:       "ALL_ENDPOINTS_FAILED",
		Message:    "all local model server URLs failed",
		HTTPStatus: http.StatusBadGateway,
		Details:    details,
		Err:        last,
	}
}

// NewMalformedUpstreamResponse reports a success status with a payload missing
// the expected field.
func NewMalformedUpstreamResponse(upstream, expected string) error {
	return &DomainError{
		Code:       "MALFORMED_UPSTREAM_RESPONSE",
		Message:    fmt.Sprintf("unexpected response shape from %s", upstream),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"expected": expected},
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
