package ledger

import (
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/utils"
	"github.com/shopspring/decimal"
)

// SettlementResult is the outcome of a repayment.
type SettlementResult struct {
	Updated   models.Transaction // the debt-bearing record after the payment
	Repayment models.Transaction // the appended repayment record
	Ledger    Ledger
}

// SettleFacility pays down a loan facility. The outstanding amount floors at
// zero: an overpayment is recorded in full but the excess is not carried
// anywhere.
func SettleFacility(l Ledger, parentID string, p models.Payment, now time.Time) (SettlementResult, error) {
	parent, ok := l.Get(parentID)
	if !ok {
		return SettlementResult{Ledger: l}, ErrNotFound
	}
	if !parent.IsLoanParent {
		return SettlementResult{Ledger: l}, ErrNotLoanParent
	}
	return settle(l, parent, p, now)
}

// SettleDeferred pays down the unpaid remainder of a single transaction that
// was saved as a deferred settlement.
func SettleDeferred(l Ledger, id string, p models.Payment, now time.Time) (SettlementResult, error) {
	tx, ok := l.Get(id)
	if !ok {
		return SettlementResult{Ledger: l}, ErrNotFound
	}
	if tx.IsLoanParent {
		return SettleFacility(l, id, p, now)
	}
	return settle(l, tx, p, now)
}

func settle(l Ledger, target models.Transaction, p models.Payment, now time.Time) (SettlementResult, error) {
	if !p.Amount.IsPositive() {
		return SettlementResult{Ledger: l}, invalid("amount", "amount must be greater than zero")
	}
	if !target.HasDebt() {
		return SettlementResult{Ledger: l}, ErrNoDebt
	}

	owed := decimal.Max(target.SettledAmount.Sub(p.Amount), decimal.Zero)
	target.SettledAmount = owed
	target.IsSettled = !owed.IsPositive()

	date := p.Date
	if date.IsZero() {
		date = now
	}
	status := models.StatusVerified
	if date.After(now) {
		status = models.StatusPending
	}
	accountID := p.AccountID
	if accountID == "" {
		accountID = target.AccountID
	}
	note := p.Note
	if note == "" {
		note = "Settlement: " + target.Note
	}
	repayment := models.Transaction{
		ID:                   utils.NewID(),
		Amount:               p.Amount,
		Type:                 models.Expense,
		Role:                 models.RoleSettlement,
		CategoryID:           target.CategoryID,
		AccountID:            accountID,
		Date:                 date,
		Note:                 note,
		Description:          "Repayment",
		Status:               status,
		IsSettled:            true,
		IsSettlement:         true,
		RelatedTransactionID: target.ID,
	}

	next, err := l.Replace(target)
	if err != nil {
		return SettlementResult{Ledger: l}, err
	}
	return SettlementResult{
		Updated:   target,
		Repayment: repayment,
		Ledger:    next.Append(repayment),
	}, nil
}

// Defer stores tx as partly paid: only paidNow leaves the account and the
// rest stays owed on the record. paidNow is clamped to [0, tx.Amount].
func Defer(tx models.Transaction, paidNow decimal.Decimal) models.Transaction {
	full := tx.Amount
	paid := decimal.Min(decimal.Max(paidNow, decimal.Zero), full)
	tx.Amount = paid
	tx.OriginalAmount = full
	tx.SettledAmount = full.Sub(paid)
	tx.IsSettled = !tx.SettledAmount.IsPositive()
	return tx
}
