package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no transaction carries the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrNotLoanParent is returned when a facility operation targets a plain record.
	ErrNotLoanParent = errors.New("transaction is not a loan facility")
	// ErrInstallmentDelete is returned when a single installment is deleted
	// outside of its facility.
	ErrInstallmentDelete = errors.New("loan installments can only be removed with their facility")
	// ErrNoDebt is returned when settling a record that owes nothing.
	ErrNoDebt = errors.New("nothing is owed on this transaction")
	// ErrNotPending is returned when realizing a record that already occurred.
	ErrNotPending = errors.New("transaction is not pending")
	// ErrReservedCategory is returned when removing a category the ledger
	// depends on.
	ErrReservedCategory = errors.New("category is reserved")
)

// ValidationError rejects an operation before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// InsufficientFundsError reports an outflow larger than the account holds.
// Callers may retry with a deferred settlement instead.
type InsufficientFundsError struct {
	AccountID string
	Balance   decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %s, required %s", e.AccountID, e.Balance, e.Required)
}
