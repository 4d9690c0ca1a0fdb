package weatherapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidDate       = errors.New("invalid date")
)

// Service error kinds. A *ServiceError unwraps to exactly one of these.
var (
	ErrService             = errors.New("weather service error")
	ErrMissingAPIKey       = errors.New("api key not provided")
	ErrMissingQuery        = errors.New("query parameter not provided")
	ErrInvalidRequestURL   = errors.New("invalid request url")
	ErrNoLocationFound     = errors.New("no location found")
	ErrInvalidAPIKey       = errors.New("invalid api key")
	ErrLimitExceeded       = errors.New("api key call limit exceeded")
	ErrAPIKeyDisabled      = errors.New("api key disabled")
	ErrAccessDenied        = errors.New("access denied")
	ErrInvalidBulkBody     = errors.New("invalid bulk request body")
	ErrBulkTooLarge        = errors.New("too many locations in bulk request")
	ErrInternalApplication = errors.New("internal application error")
)

var serviceErrorKinds = map[int]error{
	1002: ErrMissingAPIKey,
	1003: ErrMissingQuery,
	1005: ErrInvalidRequestURL,
	1006: ErrNoLocationFound,
	2006: ErrInvalidAPIKey,
	2007: ErrLimitExceeded,
	2008: ErrAPIKeyDisabled,
	2009: ErrAccessDenied,
	9000: ErrInvalidBulkBody,
	9001: ErrBulkTooLarge,
	9999: ErrInternalApplication,
}

// MalformedResponseError reports a payload that does not have the shape an
// entity needs: a missing required key or a value of the wrong type.
type MalformedResponseError struct {
	Entity string
	Key    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %q %s", e.Entity, e.Key, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

type InvalidDateError struct {
	Date   string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Date, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// ServiceError is an error reported by the weather service in its error envelope.
type ServiceError struct {
	Status  int
	Code    int
	Message string
	Kind    error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%d (error code %d): %s", e.Status, e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Kind }

func newServiceError(status, code int, message string) *ServiceError {
	kind, ok := serviceErrorKinds[code]
	if !ok {
		kind = ErrService
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &ServiceError{Status: status, Code: code, Message: message, Kind: kind}
}

// classifyError builds a *ServiceError from the body of a failed response.
// Bodies without a usable envelope fall back to ErrService with code 0.
func classifyError(status int, body any) *ServiceError {
	envelope, _ := body.(map[string]any)
	inner, _ := envelope["error"].(map[string]any)
	if inner == nil {
		return newServiceError(status, 0, "")
	}
	f := newFields("error", inner)
	code := f.int("code")
	msg := f.optString("message")
	if f.err != nil {
		return newServiceError(status, 0, "")
	}
	message := ""
	if msg != nil {
		message = *msg
	}
	return newServiceError(status, code, message)
}
