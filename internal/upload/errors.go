package upload

import (
	"errors"
	"fmt"
)

// Kind classifies why an upload attempt ended without a result.
type Kind int

const (
	KindUnknown Kind = iota
	KindPermissionDenied
	KindPickerCancelled
	KindPickerFailed
	KindProcessingFailed
	KindSizeExceeded
	KindTypeNotAllowed
	KindNetwork
	KindBadStatus
	KindBadJSON
	KindRejected
	KindCancelled
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindPermissionDenied: "permission-denied",
	KindPickerCancelled:  "picker-cancelled",
	KindPickerFailed:     "picker-failed",
	KindProcessingFailed: "processing-failed",
	KindSizeExceeded:     "size-exceeded",
	KindTypeNotAllowed:   "type-not-allowed",
	KindNetwork:          "transport-network-error",
	KindBadStatus:        "transport-bad-status",
	KindBadJSON:          "transport-bad-json",
	KindRejected:         "application-rejected",
	KindCancelled:        "user-cancelled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failed attempt. Message is what the user sees.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind when target carries no message,
// so errors.Is(err, ErrCancelled) works for every cancellation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrSizeExceeded     = &Error{Kind: KindSizeExceeded}
	ErrTypeNotAllowed   = &Error{Kind: KindTypeNotAllowed}
	ErrRejected         = &Error{Kind: KindRejected}
	ErrCancelled        = &Error{Kind: KindCancelled}
)

var (
	// ErrPickerCancelled is returned by platform pickers when the user
	// dismisses the dialog. The widget treats it as a silent no-op.
	ErrPickerCancelled = errors.New("picker cancelled")

	// ErrBusy is returned when an operation is attempted while another
	// selection or upload is in progress.
	ErrBusy = errors.New("upload widget busy")

	// ErrNoFile is returned by ConfirmUpload when nothing is being previewed.
	ErrNoFile = errors.New("no file selected")
)

// KindOf returns the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}
