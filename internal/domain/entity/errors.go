package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can branch on the kind instead of on messages.
type ErrorKind string

const (
	KindInternal        ErrorKind = "internal"
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindNotFound        ErrorKind = "not_found"
	KindSchemaMissing   ErrorKind = "schema_missing"
	KindConflict        ErrorKind = "conflict"
	KindRateLimited     ErrorKind = "rate_limited"
	KindUpstream        ErrorKind = "upstream"
)

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Err: errors.New("user not authenticated")}
	ErrNotFound        = &Error{Kind: KindNotFound, Err: errors.New("record not found")}
	ErrSchemaMissing   = &Error{Kind: KindSchemaMissing, Err: errors.New("database not initialized")}
	ErrConflict        = &Error{Kind: KindConflict, Err: errors.New("record already exists")}
)

// Error is the error type returned by services and stores.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// E builds an *Error of the given kind. err may be a string-formatted cause.
func E(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf is a shorthand for validation failures.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
