package authclient

import "errors"

// Kind classifies a failed call.
type Kind string

const (
	KindTransport         Kind = "transport"
	KindHTTPStatus        Kind = "http_status"
	KindMalformedResponse Kind = "malformed_response"
	KindInvalidRequest    Kind = "invalid_request"
)

const (
	MsgTransport         = "Network error: unable to reach server"
	MsgMalformedResponse = "Invalid response from server"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrTransport         = &Error{Kind: KindTransport}
	ErrHTTPStatus        = &Error{Kind: KindHTTPStatus}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
)

// Error is the failure outcome of a call. Error() returns only the
// human-readable message; the rest is kept for diagnostics.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	Message    string
	Snippet    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultErrorMessage
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a sentinel of the same Kind, so errors.Is(err, ErrTransport) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the kind of a client failure, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCode returns the HTTP status retained on a failure, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
