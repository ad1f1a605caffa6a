package ledger

import (
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/shopspring/decimal"
)

// Realize confirms that a pending transaction happened with the actual amount;
// a loan deficit stays owed on it. A confirmation still dated in the future
// takes the amount and moves the schedule but leaves the record pending.
func Realize(l Ledger, id string, c models.Confirmation, now time.Time) (Ledger, models.Transaction, error) {
	tx, ok := l.Get(id)
	if !ok {
		return l, models.Transaction{}, ErrNotFound
	}
	if !tx.IsPending() {
		return l, tx, ErrNotPending
	}
	if c.Amount.IsNegative() {
		return l, tx, invalid("amount", "amount cannot be negative")
	}
	if c.LoanDeficit.IsNegative() {
		return l, tx, invalid("loan deficit", "deficit cannot be negative")
	}

	date := c.Date
	if date.IsZero() {
		date = now
	}
	tx.Date = date
	tx.Amount = c.Amount
	tx.OriginalAmount = c.Amount.Add(c.LoanDeficit)
	tx.SettledAmount = c.LoanDeficit
	tx.IsSettled = !c.LoanDeficit.IsPositive()
	if date.After(now) {
		next, err := l.Replace(tx)
		return next, tx, err
	}
	tx.Status = models.StatusVerified

	next, err := l.Replace(tx)
	if err != nil {
		return l, tx, err
	}
	if tx.Role == models.RoleLoanInstallment {
		next = countDownInstallments(next, tx.RelatedTransactionID)
	}
	return next, tx, nil
}

// Reschedule moves a pending transaction to a new future date.
func Reschedule(l Ledger, id string, date, now time.Time) (Ledger, models.Transaction, error) {
	tx, ok := l.Get(id)
	if !ok {
		return l, models.Transaction{}, ErrNotFound
	}
	if !date.After(now) {
		return l, tx, invalid("date", "reschedule date must be in the future")
	}
	tx.Status = models.StatusPending
	tx.Date = date
	next, err := l.Replace(tx)
	return next, tx, err
}

func countDownInstallments(l Ledger, parentID string) Ledger {
	parent, ok := l.Get(parentID)
	if !ok || !parent.IsLoanParent {
		return l
	}
	if parent.RemainingInstallments > 0 {
		parent.RemainingInstallments--
	}
	next, err := l.Replace(parent)
	if err != nil {
		return l
	}
	return next
}

// OutflowExceeds reports whether taking amount out of the account would
// overdraw it, returning the balance it was checked against.
func OutflowExceeds(accountID string, accounts []models.Account, l Ledger, excludeID string, amount decimal.Decimal) (bool, decimal.Decimal) {
	balance := AvailableBalance(accountID, accounts, l, excludeID)
	return amount.GreaterThan(balance), balance
}
