package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("request rejected")
	ErrBadResponse  = errors.New("bad response")
)

// Kind selects which sentinel an *Error matches.
type Kind int

const (
	KindUnavailable Kind = iota + 1
	KindUnauthorized
	KindRejected
	KindBadResponse
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnavailable:
		return ErrUnavailable
	case KindUnauthorized:
		return ErrUnauthorized
	case KindRejected:
		return ErrRejected
	case KindBadResponse:
		return ErrBadResponse
	}
	return nil
}

// Error is a failed API call. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Action  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
