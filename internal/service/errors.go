package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// Kind classifies a service failure so transports can map it to a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a classified, caller-facing failure. Message is safe to return
// to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "already exists"}
	ErrForbidden  = &Error{Kind: KindForbidden, Message: "forbidden"}
)

func validationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the classification of err, or 0 when err is not a
// service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// fromValidation turns ozzo validation output into a ValidationError with
// a single readable message. Internal errors pass through untouched.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return &Error{Kind: KindValidation, Message: err.Error()}
}

// translateStoreError maps translated gorm errors onto the service
// taxonomy. Anything unrecognised is wrapped with op and returned as is.
func translateStoreError(err error, op string, messages storeMessages) error {
	switch {
	case err == nil:
		return nil
	case KindOf(err) != 0:
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict("%s", messages.or(messages.Duplicate, "already exists"))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return notFound("%s", messages.or(messages.Missing, "referenced entity not found"))
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return validationError("%s", messages.or(messages.Check, "value out of range"))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("%s", messages.or(messages.Missing, "not found"))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// storeMessages carries per-operation wording for translated store errors.
type storeMessages struct {
	Duplicate string
	Missing   string
	Check     string
}

func (storeMessages) or(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
