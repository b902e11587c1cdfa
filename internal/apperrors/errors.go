package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger posting failures. Every one of these aborts the current posting or reversal
// and leaves the store exactly as it was before the call.
var (
	// ErrRequiredAccountNotFound means a mandatory role or line account has no matching active account.
	ErrRequiredAccountNotFound = errors.New("required account not found")

	// ErrUnbalancedEntry means total debits do not equal total credits.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")

	// ErrInsufficientLineItems means a journal entry was submitted with fewer than two line items.
	ErrInsufficientLineItems = errors.New("journal entry must have at least two line items")

	// ErrStorageFailure wraps any fault raised by the underlying store.
	ErrStorageFailure = errors.New("ledger storage failure")

	// ErrInvalidLineItem means a line item is negative, empty, or carries both a debit and a credit.
	ErrInvalidLineItem = fmt.Errorf("%w: invalid journal line item", ErrValidation)

	// ErrDuplicateReference means an entry already exists for the reference.
	ErrDuplicateReference = fmt.Errorf("%w: journal reference", ErrDuplicate)

	// ErrAccountInUse means an account cannot be removed because line items reference it.
	ErrAccountInUse = errors.New("account is referenced by journal items")

	// ErrAccountInactive means the account exists but cannot receive postings.
	ErrAccountInactive = fmt.Errorf("%w: account is inactive", ErrRequiredAccountNotFound)

	// ErrUnknownEventType means no posting strategy is registered for the event type.
	ErrUnknownEventType = fmt.Errorf("%w: unknown event type", ErrValidation)
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(404, message, ErrNotFound)
}

// NewStorageError creates an AppError that matches both ErrStorageFailure and the driver error.
func NewStorageError(message string, err error) *AppError {
	if err == nil {
		return NewAppError(500, message, ErrStorageFailure)
	}
	return NewAppError(500, message, fmt.Errorf("%w: %w", ErrStorageFailure, err))
}
