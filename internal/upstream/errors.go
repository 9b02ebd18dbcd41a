package upstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies upstream failures so callers can decide between
// degrading to synthetic data and surfacing the failure.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindHTTP      ErrorKind = "http"
	KindNetwork   ErrorKind = "network"
	KindNoContent ErrorKind = "no_content"
)

// Error is the structured failure returned by every upstream client.
type Error struct {
	Kind     ErrorKind
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Provider, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the upstream error kind, or "" if err is not an upstream error.
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}
