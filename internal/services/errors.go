package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound                  = errors.New("not found")
	ErrValidation                = errors.New("validation failed")
	ErrUnauthenticated           = errors.New("authentication required")
	ErrForbidden                 = errors.New("insufficient role")
	ErrForbiddenSelfModification = errors.New("cannot modify own account")
	ErrStoreUnavailable          = errors.New("store unavailable")
	ErrConflict                  = errors.New("conflict")
)

// Error kinds as reported to API callers.
const (
	KindNotFound                  = "not_found"
	KindValidation                = "validation_error"
	KindUnauthenticated           = "unauthenticated"
	KindForbidden                 = "forbidden"
	KindForbiddenSelfModification = "forbidden_self_modification"
	KindStoreUnavailable          = "store_unavailable"
	KindConflict                  = "conflict"
)

// ErrorKind classifies err by the sentinel it wraps. Unclassified errors are
// reported as store_unavailable.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbiddenSelfModification):
		return KindForbiddenSelfModification
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindStoreUnavailable
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError maps repository failures onto the caller-facing kinds.
func storeError(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s: already exists", ErrConflict, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, what, err)
}
