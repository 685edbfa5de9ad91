package lists

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/feira/internal/calculator"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrLimitExceeded = errors.New("purchase limit exceeded")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("not authorized")
	ErrPersistence   = errors.New("persistence failure")
)

// errListClosed marks a validation failure caused by a list that is no
// longer open.
var errListClosed = errors.New("list closed")

// ValidationError reports bad input such as a non-positive quantity or an
// unavailable product.
type ValidationError struct {
	Field  string
	Reason string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.err }

// LimitExceededError is returned when a change would push a list's total
// above its ceiling. Nothing is written when it is returned.
type LimitExceededError struct {
	Ceiling   decimal.Decimal
	Total     decimal.Decimal // total before the rejected change
	Attempted decimal.Decimal // total the change would have produced
	Product   string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("cannot change %s: limit of %s would be exceeded (total would be %s)",
		e.Product, calculator.Format(e.Ceiling), calculator.Format(e.Attempted))
}

func (e *LimitExceededError) Is(target error) bool { return target == ErrLimitExceeded }

// NotFoundError reports a missing beneficiary, product, list or entry.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnauthorizedError is returned when the caller does not own the list or
// entry being changed.
type UnauthorizedError struct {
	BeneficiaryID string
	Resource      string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("beneficiary %s may not modify %s", e.BeneficiaryID, e.Resource)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// PersistenceError wraps a storage failure. The surrounding transaction has
// been rolled back when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
