// Package apperr defines the closed error taxonomy shared by all storefront
// operations. Repositories and services return these; the HTTP layer maps
// them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNotFound: a referenced product, order or user does not exist.
	KindNotFound Kind = iota
	// KindUnauthorized: the actor does not own the resource.
	KindUnauthorized
	// KindValidation: malformed input; Fields names the offending fields.
	KindValidation
	// KindStorage: underlying persistence failure, retryable by the caller.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

type Error struct {
	Kind   Kind
	Msg    string
	Fields []string // set for KindValidation only
	Err    error    // wrapped cause, set for KindStorage
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Msg: op, Err: err}
}

// KindOf reports the taxonomy kind of err. Untagged errors are treated as
// storage failures, matching their generic-500 handling.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

func IsNotFound(err error) bool     { return is(err, KindNotFound) }
func IsUnauthorized(err error) bool { return is(err, KindUnauthorized) }
func IsValidation(err error) bool   { return is(err, KindValidation) }
func IsStorage(err error) bool      { return is(err, KindStorage) }

func is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// FieldsOf returns the per-field identifiers of a validation error, or nil.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
