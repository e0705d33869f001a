package domain

import (
	stderr "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrRecordNotFound keeps repository callers independent of the storage driver errors
var ErrRecordNotFound = errors.New("record not found")

// Common errors shared by every resource
var (
	ErrNotFound = DetailedError{
		IDField:         "NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "The requested resource could not be found",
		StatusCodeField: http.StatusNotFound,
	}

	ErrTooManyRequests = DetailedError{
		IDField:         "TOO_MANY_REQUESTS",
		StatusDescField: http.StatusText(http.StatusTooManyRequests),
		ErrorField:      "Too many requests, please try again later",
		StatusCodeField: http.StatusTooManyRequests,
	}

	ErrInternalServerError = DetailedError{
		IDField:         "INTERNAL_SERVER_ERROR",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "An internal server error occurred, please contact the academy administrator",
		StatusCodeField: http.StatusInternalServerError,
	}

	ErrBadRequest = DetailedError{
		IDField:         "BAD_REQUEST",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "The request was malformed or contained invalid parameters",
		StatusCodeField: http.StatusBadRequest,
	}
)

type DetailedError struct {
	// The error ID
	//
	// Useful when trying to identify various errors in application logic.
	IDField string `json:"id,omitempty"`

	// The status code
	//
	// example: 404
	StatusCodeField int `json:"code,omitempty"`

	// The status description
	//
	// example: Not Found
	StatusDescField string `json:"status,omitempty"`

	// The request ID, copied from the X-Request-ID header when the error is rendered
	RIDField string `json:"request,omitempty"`

	// A human-readable reason for the error
	//
	// example: Spell with ID 1234 does not exist.
	ReasonField string `json:"reason,omitempty"`

	// Error message
	//
	// required: true
	ErrorField string `json:"message"`

	// Further error details, e.g. per-field validation messages
	DetailsField map[string]interface{} `json:"details,omitempty"`

	err error
}

// StackTrace returns the wrapped error's stack trace when it carries one.
func (e *DetailedError) StackTrace() (trace errors.StackTrace) {
	if st := stackTracer(nil); stderr.As(e.err, &st) {
		trace = st.StackTrace()
	}
	return
}

func (e DetailedError) Unwrap() error {
	return e.err
}

func (e DetailedError) WithWrap(err error) *DetailedError {
	e.err = err
	return &e
}

// WithTrace wraps err and records a stack trace if it does not have one yet.
func (e DetailedError) WithTrace(err error) *DetailedError {
	if st := stackTracer(nil); stderr.As(err, &st) {
		e.err = err
	} else {
		e.err = errors.WithStack(err)
	}
	return &e
}

func (e DetailedError) Is(err error) bool {
	switch te := err.(type) {
	case DetailedError:
		return e.IDField == te.IDField && e.StatusCodeField == te.StatusCodeField
	case *DetailedError:
		return e.IDField == te.IDField && e.StatusCodeField == te.StatusCodeField
	default:
		return false
	}
}

func (e DetailedError) Status() string {
	return e.StatusDescField
}

func (e DetailedError) ID() string {
	return e.IDField
}

func (e DetailedError) Error() string {
	return e.ErrorField
}

func (e DetailedError) RequestID() string {
	return e.RIDField
}

func (e DetailedError) Reason() string {
	return e.ReasonField
}

func (e DetailedError) Details() map[string]interface{} {
	return e.DetailsField
}

func (e DetailedError) StatusCode() int {
	return e.StatusCodeField
}

func (e DetailedError) WithRequestID(id string) *DetailedError {
	e.RIDField = id
	return &e
}

func (e DetailedError) WithReason(reason string) *DetailedError {
	e.ReasonField = reason
	return &e
}

func (e DetailedError) WithReasonf(reason string, args ...interface{}) *DetailedError {
	return e.WithReason(fmt.Sprintf(reason, args...))
}

func (e DetailedError) WithError(message string) *DetailedError {
	e.ErrorField = message
	return &e
}

func (e DetailedError) WithErrorf(message string, args ...interface{}) *DetailedError {
	return e.WithError(fmt.Sprintf(message, args...))
}

func (e DetailedError) WithDetail(key string, detail interface{}) *DetailedError {
	details := make(map[string]interface{}, len(e.DetailsField)+1)
	for k, v := range e.DetailsField {
		details[k] = v
	}
	details[key] = detail
	e.DetailsField = details
	return &e
}

func (e DetailedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "id=%s\n", e.IDField)
			_, _ = fmt.Fprintf(s, "rid=%s\n", e.RIDField)
			_, _ = fmt.Fprintf(s, "error=%s\n", e.ErrorField)
			_, _ = fmt.Fprintf(s, "reason=%s\n", e.ReasonField)
			_, _ = fmt.Fprintf(s, "details=%+v\n", e.DetailsField)
			e.StackTrace().Format(s, verb)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.ErrorField)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.ErrorField)
	}
}

// AsDetailedError unwraps err until it finds a DetailedError.
func AsDetailedError(err error) (*DetailedError, bool) {
	if err == nil {
		return nil, false
	}
	var de *DetailedError
	if stderr.As(err, &de) {
		return de, true
	}
	var dv DetailedError
	if stderr.As(err, &dv) {
		return &dv, true
	}
	return nil, false
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}
