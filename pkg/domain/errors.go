package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the screening engine.
type ErrorKind string

const (
	KindEmptyFieldSubmitted      ErrorKind = "EmptyFieldSubmitted"
	KindQuestionGenerationFailed ErrorKind = "QuestionGenerationFailed"
	KindInvalidOptionSelected    ErrorKind = "InvalidOptionSelected"
	KindPersistenceWriteFailed   ErrorKind = "PersistenceWriteFailed"
	KindInvalidTransition        ErrorKind = "InvalidTransition"
	KindSessionTerminated        ErrorKind = "SessionTerminated"
)

// Error is a classified engine error.
// errors.Is matches it against the Err* sentinels below by Kind.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a classified error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

var (
	ErrEmptyFieldSubmitted      = &Error{Kind: KindEmptyFieldSubmitted}
	ErrQuestionGenerationFailed = &Error{Kind: KindQuestionGenerationFailed}
	ErrInvalidOptionSelected    = &Error{Kind: KindInvalidOptionSelected}
	ErrPersistenceWriteFailed   = &Error{Kind: KindPersistenceWriteFailed}
	ErrInvalidTransition        = &Error{Kind: KindInvalidTransition}
	ErrSessionTerminated        = &Error{Kind: KindSessionTerminated}
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// KindOf extracts the ErrorKind of err, or "" when err is not classified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
