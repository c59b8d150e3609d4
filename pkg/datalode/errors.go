package datalode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Kind classifies client failures so callers can branch without matching
// on message strings.
type Kind int

const (
	// KindAPI covers non-2xx statuses with no more specific class.
	KindAPI Kind = iota
	// KindAuthentication marks a missing, invalid, or insufficient token.
	KindAuthentication
	// KindValidation marks malformed or out-of-range request parameters,
	// whether rejected locally or by the platform.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindTransport marks requests that never produced an HTTP response.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindTransport:
		return "transport"
	default:
		return "api"
	}
}

// Error is the error type returned by every Client operation.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Op names the operation that failed, e.g. "create event".
	Op string
	// StatusCode is the HTTP status; zero when no response was received.
	StatusCode int
	// Message carries the platform's error message when one was provided.
	Message string
	// RawBody holds the raw response body for debugging.
	RawBody []byte

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("datalode: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap exposes the underlying cause of transport failures.
func (e *Error) Unwrap() error { return e.cause }

// IsAuthenticationError reports whether err is a token failure.
func IsAuthenticationError(err error) bool { return hasKind(err, KindAuthentication) }

// IsValidationError reports whether err is a rejected-parameter failure.
func IsValidationError(err error) bool { return hasKind(err, KindValidation) }

// IsNotFoundError reports whether err marks a missing entity.
func IsNotFoundError(err error) bool { return hasKind(err, KindNotFound) }

// IsTransportError reports whether err is a network-level failure.
func IsTransportError(err error) bool { return hasKind(err, KindTransport) }

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthentication
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	}
	return KindAPI
}

// serverMessage pulls the platform's message out of a JSON error body,
// falling back to the standard status text.
func serverMessage(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(status)
}

// apiError maps a non-2xx response to a typed Error.
func apiError(op string, resp *resty.Response) *Error {
	status := resp.StatusCode()
	body := resp.Body()
	return &Error{
		Kind:       kindForStatus(status),
		Op:         op,
		StatusCode: status,
		Message:    serverMessage(body, status),
		RawBody:    body,
	}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, cause: err}
}

func validationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

func authenticationError(op, msg string) *Error {
	return &Error{Kind: KindAuthentication, Op: op, Message: msg}
}
