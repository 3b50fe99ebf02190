package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindDuplicate     ErrorKind = "duplicate"
	KindSignature     ErrorKind = "signature"
	KindCapacity      ErrorKind = "capacity"
	KindNotFound      ErrorKind = "not_found"
	KindAuthorization ErrorKind = "authorization"
	KindBackend       ErrorKind = "backend"
)

// AppError is the error type every service returns to controllers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can write errors.Is(err, utils.ErrCapacity).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation    = &AppError{Kind: KindValidation}
	ErrDuplicate     = &AppError{Kind: KindDuplicate}
	ErrSignature     = &AppError{Kind: KindSignature}
	ErrCapacity      = &AppError{Kind: KindCapacity}
	ErrNotFound      = &AppError{Kind: KindNotFound}
	ErrAuthorization = &AppError{Kind: KindAuthorization}
	ErrBackend       = &AppError{Kind: KindBackend}
)

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(field string) *AppError {
	return &AppError{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("%s is already registered", field),
		Details: map[string]interface{}{"field": field},
	}
}

func Capacity(entity string, count int64, limit int) *AppError {
	return &AppError{
		Kind:    KindCapacity,
		Message: fmt.Sprintf("%s limit reached for your plan (%d/%d)", entity, count, limit),
		Details: map[string]interface{}{"entity": entity, "count": count, "limit": limit},
	}
}

func NotFound(entity string) *AppError {
	return &AppError{Kind: KindNotFound, Message: entity + " not found"}
}

func Backend(op string, err error) *AppError {
	return &AppError{Kind: KindBackend, Message: op + " failed", Err: err}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindSignature:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindCapacity, KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
