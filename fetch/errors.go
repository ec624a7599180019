package fetch

import (
	"errors"
	"fmt"
)

// ErrNoSupplementalResult is returned when the supplemental endpoint
// answers with an empty result list.
var ErrNoSupplementalResult = errors.New("no voter details returned")

// ErrTransport indicates a network or HTTP-level failure at any fetch
// stage. Recoverable: the orchestrator may fall back to cached data.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrTransport struct {
	Stage  string // "resolve", "blob" or "supplemental"
	Status int    // HTTP status, 0 when the request never completed
	cause  error
}

func (e *ErrTransport) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s request failed with status %d", e.Stage, e.Status)
	}
	return fmt.Sprintf("%s request failed: %v", e.Stage, e.cause)
}

func (e *ErrTransport) Unwrap() error { return e.cause }

// ErrMalformedResponse indicates a success-status response whose body is
// missing or has the wrong shape for an expected field. Treated like a
// transport failure for fallback purposes.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedResponse struct {
	Field string
	cause error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed response: field %q missing or invalid", e.Field)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.cause }

// ErrUpstreamFailure indicates the backend embedded a failure marker in an
// otherwise successful response.
type ErrUpstreamFailure struct {
	Message string
}

func (e *ErrUpstreamFailure) Error() string {
	if e.Message == "" {
		return "upstream reported failure"
	}
	return e.Message
}
