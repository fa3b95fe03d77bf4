package api

import (
	"errors"
	"fmt"
)

// TransportError means the request never produced an HTTP response:
// connection refused, DNS failure, timeout, cancelled context.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError means the backend answered with a non-success status. Message
// carries the backend's {"error": ...} body text when it sent one.
type HTTPError struct {
	Op         string
	Status     int
	StatusText string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.StatusText)
}

// DecodeError means the backend answered 2xx but the body did not match the
// expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsHTTP extracts an HTTPError from err when present.
func AsHTTP(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
