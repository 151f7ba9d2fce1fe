package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies failures so the API layer can translate them to a
// transport status in one place.
type ErrorKind int

const (
	// KindStorage covers registry or log read/write failures.
	KindStorage ErrorKind = iota
	// KindBadRequest is a missing or malformed input.
	KindBadRequest
	// KindNotFound means the addressed record does not exist.
	KindNotFound
	// KindDuplicateIdentifier means a create or update would break uid uniqueness.
	KindDuplicateIdentifier
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindDuplicateIdentifier:
		return "duplicate_identifier"
	default:
		return "storage_error"
	}
}

// Error is the error type returned by services.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrBadRequest          = &Error{Kind: KindBadRequest}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrDuplicateIdentifier = &Error{Kind: KindDuplicateIdentifier}
	ErrStorage             = &Error{Kind: KindStorage}
)

// KindOf returns the kind of err; errors that are not *Error are storage
// failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// MissingParameter builds the BadRequest error for an absent query parameter.
func MissingParameter(name string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Op:      "validate",
		Message: fmt.Sprintf("Missing required query parameter: %q", name),
	}
}

func badRequest(op, msg string) *Error {
	return &Error{Kind: KindBadRequest, Op: op, Message: msg}
}

func notFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

func duplicate(op, msg string) *Error {
	return &Error{Kind: KindDuplicateIdentifier, Op: op, Message: msg}
}

// storageErr wraps a gorm error. Record-not-found and duplicate-key results
// are mapped onto their own kinds.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Op: op, Message: "record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindDuplicateIdentifier, Op: op, Message: "uid already exists", Err: err}
	}
	return &Error{Kind: KindStorage, Op: op, Err: err}
}
