package tracker

import "errors"

var (
	// ErrNetwork indicates the tracker could not be reached, timed out, or
	// answered with a transient server error.
	ErrNetwork = errors.New("issue tracker unreachable")

	// ErrAuth indicates the tracker rejected the configured credentials.
	ErrAuth = errors.New("issue tracker rejected credentials")

	// ErrMalformedResponse indicates the tracker returned a body that could
	// not be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed issue tracker response")

	// ErrRejected indicates the tracker refused a write request.
	ErrRejected = errors.New("issue tracker rejected request")

	// ErrNotFound indicates the requested issue does not exist.
	ErrNotFound = errors.New("issue not found")
)
