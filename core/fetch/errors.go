package fetch

import (
	"errors"
	"fmt"

	"github.com/leofalp/marketdata/internal/utils"
)

// MaxBodyExcerpt bounds the response text kept on an [Error].
const MaxBodyExcerpt = 500

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConnection covers DNS failures, refused connections, broken reads
	// and timeouts.
	KindConnection
	// KindTimeout is never set on an Error; timeouts are reported as
	// KindConnection and detected with IsTimeout or errors.Is(err, ErrTimeout).
	KindTimeout
	KindNotFound
	KindAPIFailure
	// KindParseFailure is raised by structured-data extraction, not by the
	// HTML cleaning pipeline.
	KindParseFailure
)

// String returns the snake_case name used in logs and tool messages.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindAPIFailure:
		return "api_failure"
	case KindParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrConnection   = errors.New("marketdata: connection error")
	ErrTimeout      = errors.New("marketdata: request timed out")
	ErrNotFound     = errors.New("marketdata: resource not found")
	ErrAPIFailure   = errors.New("marketdata: api failure")
	ErrParseFailure = errors.New("marketdata: parse failure")

	// ErrInvalidURL is returned, wrapped, when a request URL is empty, relative,
	// or not http(s). It is a caller error and carries no Kind.
	ErrInvalidURL = errors.New("marketdata: invalid url")

	// ErrClosed is the cause of the connection error returned by a Fetcher
	// after Close.
	ErrClosed = errors.New("marketdata: fetcher closed")
)

// Error is the record every fetch and extraction failure is reported with.
// It is created at the failure site and returned to the caller unchanged.
type Error struct {
	Kind    Kind
	Message string
	URL     string
	// StatusCode is zero when no HTTP response was received.
	StatusCode int
	// Body holds at most MaxBodyExcerpt characters of the response.
	Body string
	// Err is the underlying cause, if any.
	Err error

	timeout bool
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrTimeout:
		return e.timeout
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAPIFailure:
		return e.Kind == KindAPIFailure
	case ErrParseFailure:
		return e.Kind == KindParseFailure
	}
	return false
}

// Timeout reports whether the connection failure was caused by the request
// timeout or an expired context deadline.
func (e *Error) Timeout() bool {
	return e.timeout
}

// NewConnectionError wraps a network-level failure.
func NewConnectionError(url string, cause error) *Error {
	return &Error{
		Kind:    KindConnection,
		Message: "connection failed",
		URL:     url,
		Err:     cause,
	}
}

// NewTimeoutError reports an expired timeout. The kind stays KindConnection.
func NewTimeoutError(url string, cause error) *Error {
	return &Error{
		Kind:    KindConnection,
		Message: "request timed out",
		URL:     url,
		Err:     cause,
		timeout: true,
	}
}

// NewNotFoundError reports an HTTP 404 for url.
func NewNotFoundError(url string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    "resource not found",
		URL:        url,
		StatusCode: 404,
	}
}

// NewAPIFailureError reports an unusable response. body is cut to
// MaxBodyExcerpt characters; cause may be nil.
func NewAPIFailureError(url string, status int, body string, cause error) *Error {
	return &Error{
		Kind:       KindAPIFailure,
		Message:    "unexpected response",
		URL:        url,
		StatusCode: status,
		Body:       utils.Excerpt(body, MaxBodyExcerpt),
		Err:        cause,
	}
}

// NewParseFailureError reports that structured data could not be extracted.
func NewParseFailureError(message string, cause error) *Error {
	return &Error{
		Kind:    KindParseFailure,
		Message: message,
		Err:     cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return KindUnknown
}

// IsTimeout reports whether err is a timed-out connection failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
