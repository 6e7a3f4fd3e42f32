package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindInvalidTier
	KindInsufficientStock
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindInvalidTier:
		return "InvalidTier"
	case KindInsufficientStock:
		return "InsufficientStock"
	default:
		return "InternalError"
	}
}

// Error carries a business failure kind so the HTTP layer can pick a status
// code without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) error {
	return newError(KindValidation, format, args...)
}

func NotFoundError(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

func ForbiddenError(format string, args ...any) error {
	return newError(KindForbidden, format, args...)
}

func UnauthorizedError(format string, args ...any) error {
	return newError(KindUnauthorized, format, args...)
}

func InvalidTierError(tier string) error {
	return newError(KindInvalidTier, "Invalid pricing tier: %s", tier)
}

func InsufficientStockError(product string) error {
	return newError(KindInsufficientStock, "Insufficient stock for %s", product)
}

// InternalError wraps an unexpected infrastructure failure.
func InternalError(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
