package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the core pipeline.
var (
	// ErrInvalidInput signals a violated precondition, such as an empty
	// score mapping handed to the normalizer.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoStructuredData signals that a model reply contained no
	// JSON-shaped object at all.
	ErrNoStructuredData = errors.New("no structured data found in model output")

	// ErrMalformedStructuredData signals that a JSON-shaped object was
	// found but could not be decoded into a flat label-to-number mapping.
	ErrMalformedStructuredData = errors.New("malformed structured data in model output")

	// ErrUnsupported signals an unrecognized audio format or extension.
	ErrUnsupported = errors.New("unsupported input")
)

// RemoteServiceError carries the status and message of a failed call to an
// external capability service, verbatim, so operators can see exactly what
// the remote side reported.
type RemoteServiceError struct {
	Service string
	Status  int
	Message string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error: %d - %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Service, e.Message)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}
