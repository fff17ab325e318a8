package storage

import "errors"

var (
	// ErrUnavailable indicates the dish storage service is unreachable.
	ErrUnavailable = errors.New("dish storage service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("dish storage request timed out")

	// ErrUnexpectedStatus indicates the service answered with a
	// non-success status code.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrInvalidResponse indicates a success response whose body is not
	// valid JSON.
	ErrInvalidResponse = errors.New("invalid response body")
)
