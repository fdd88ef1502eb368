package llm

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is matched by every *ResponseError.
var ErrMalformedResponse = errors.New("malformed generation response")

// StatusError is returned when the generation endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generate: http %d: %s", e.StatusCode, e.Body)
}

// ResponseError is returned when a 2xx response does not match the expected
// {"results":[{"text": "..."}]} shape.
type ResponseError struct {
	Reason string
	Cause  error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return "generate: " + e.Reason + ": " + e.Cause.Error()
	}
	return "generate: " + e.Reason
}

func (e *ResponseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedResponse, e.Cause}
	}
	return []error{ErrMalformedResponse}
}
