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

// ErrInvalidState indicates an operation attempted from a disallowed status
// (e.g. posting an already-posted journal entry).
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrUnbalancedEntry indicates total debits and credits differ beyond the
// balance tolerance at posting time.
var ErrUnbalancedEntry = errors.New("journal entry is not balanced")

// ErrConfiguration indicates a required control account is not configured.
var ErrConfiguration = errors.New("control account not configured")

// ErrHasChildren blocks deletion of an account with child accounts.
var ErrHasChildren = errors.New("account has child accounts")

// ErrHasTransactions blocks deletion of an account referenced by journal
// items, voided ones included, to preserve the audit trail.
var ErrHasTransactions = errors.New("account has journal transactions")

// ErrHasPayments blocks voiding a voucher that has payments recorded.
var ErrHasPayments = errors.New("voucher has recorded payments")

// ErrInvalidAmount indicates a payment amount that is not positive or
// exceeds the voucher's remaining balance.
var ErrInvalidAmount = errors.New("invalid payment amount")

// ErrDataIntegrity indicates structural corruption in persisted state, such
// as a cycle in the account parent graph.
var ErrDataIntegrity = errors.New("data integrity violation")

// AppError wraps an infrastructure failure with a short context message.
// Sentinel errors above describe domain outcomes; AppError is for the
// plumbing underneath them.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
