package xdbc

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrClosed is returned when operating on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrNoTransaction is returned when committing or rolling back a
	// session that has no open transaction.
	ErrNoTransaction = errors.New("no open transaction")

	// ErrInvalidResponse is returned when the server response is invalid.
	ErrInvalidResponse = errors.New("invalid server response")
)

// ConnectionError represents a connection or descriptor failure.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError represents a malformed server response.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// RequestError represents an error returned by the server for a submitted
// request. The server's diagnostic payload is carried whole: the vendor
// error code, the W3C error code, the retryability flag, and the server-side
// stack. Flattening these into a message string loses them for callers that
// dispatch on error codes.
type RequestError struct {
	// Code is the vendor error code, e.g. "XDMP-TIMEOUT".
	Code string `json:"code"`
	// W3CCode is the standard XQuery error code, e.g. "err:FOER0000".
	W3CCode string `json:"w3cCode,omitempty"`
	// Retryable reports whether the server considers the request safe to
	// resubmit.
	Retryable bool `json:"retryable"`
	// RequestID identifies the failed request.
	RequestID string `json:"requestID,omitempty"`
	// Message is the human-readable server message.
	Message string `json:"message"`
	// Stack is the server-side evaluation stack, when provided.
	Stack []string `json:"stack,omitempty"`
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.W3CCode != "" {
		fmt.Fprintf(&b, " (%s)", e.W3CCode)
	}
	if e.Retryable {
		b.WriteString(" (retryable)")
	}
	return b.String()
}

// InvalidOptionError is returned when an option map contains keys outside
// the recognized set for its option group. No options object is built.
type InvalidOptionError struct {
	Group string
	Keys  []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s option keys: %s", e.Group, strings.Join(e.Keys, ", "))
}

// UnknownTypeError is returned when a result item carries a type tag that
// has no conversion entry.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown server type tag %q", e.Tag)
}

// MultipleItemsError is returned when a result shaped as a strict single
// value holds more than one item. The full sequence is carried for
// inspection.
type MultipleItemsError struct {
	Items []Item
}

func (e *MultipleItemsError) Error() string {
	return fmt.Sprintf("expected a single result item, got %d", len(e.Items))
}
