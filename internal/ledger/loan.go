package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/utils"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateLoan checks a loan request without building anything.
func ValidateLoan(req models.LoanRequest) error {
	if req.LoanType != models.LoanCash && req.LoanType != models.LoanAsset {
		return invalid("loan type", fmt.Sprintf("unknown loan type %q", req.LoanType))
	}
	if strings.TrimSpace(req.Name) == "" {
		return invalid("name", "loan name is required")
	}
	if !req.Amount.IsPositive() {
		return invalid("amount", "amount must be greater than zero")
	}
	if req.AccountID == "" {
		return invalid("account", "account is required")
	}
	if req.TotalInstallments < 0 {
		return invalid("installments", "installments cannot be negative")
	}
	if req.InstallmentFee.IsNegative() {
		return invalid("installment fee", "installment fee cannot be negative")
	}
	if req.LoanType == models.LoanAsset {
		if req.DownPayment.IsNegative() {
			return invalid("down payment", "down payment cannot be negative")
		}
		if req.DownPayment.GreaterThan(req.Amount) {
			return invalid("down payment", "down payment exceeds the loan amount")
		}
	}
	if req.SetupDate.IsZero() {
		return invalid("date", "setup date is required")
	}
	return nil
}

// CreateLoan decomposes a loan request into its facility header followed by
// the cash income, the down payment and the monthly installments. An empty
// parentID generates a new one. Installments dated after now are pending.
func CreateLoan(req models.LoanRequest, parentID string, now time.Time) ([]models.Transaction, error) {
	if err := ValidateLoan(req); err != nil {
		return nil, err
	}
	if parentID == "" {
		parentID = utils.NewID()
	}

	downPayment := req.DownPayment
	if req.LoanType == models.LoanCash {
		downPayment = decimal.Zero
	}
	firstInstallment := req.FirstInstallmentDate
	if firstInstallment.IsZero() {
		firstInstallment = addMonths(req.SetupDate, 1)
	}
	categoryID := req.CategoryID
	if categoryID == "" {
		categoryID = models.LoanCategoryID
	}
	description := req.Note
	if description == "" {
		description = fmt.Sprintf("%s Loan Facility", req.LoanType)
	}

	owed := req.Amount.Sub(downPayment)
	parent := models.Transaction{
		ID:                   parentID,
		Amount:               req.Amount,
		Type:                 models.Expense,
		Role:                 models.RoleLoanFacility,
		CategoryID:           categoryID,
		AccountID:            req.AccountID,
		Date:                 req.SetupDate,
		Note:                 req.Name,
		Description:          description,
		Status:               models.StatusVerified,
		SettledAmount:        owed,
		IsSettled:            !owed.IsPositive(),
		IsLoanParent:         true,
		LoanType:             req.LoanType,
		TotalInstallments:    req.TotalInstallments,
		InstallmentFee:       req.InstallmentFee,
		DownPayment:          downPayment,
		FirstInstallmentDate: firstInstallment,
	}
	parts := []models.Transaction{parent}

	if req.LoanType == models.LoanCash {
		parts = append(parts, models.Transaction{
			ID:                   utils.NewID(),
			Amount:               req.Amount,
			Type:                 models.Income,
			Role:                 models.RoleLoanIncome,
			CategoryID:           categoryID,
			AccountID:            req.AccountID,
			Date:                 req.SetupDate,
			Note:                 "Loan Received: " + req.Name,
			Description:          "Principal amount for " + req.Name,
			Status:               models.StatusVerified,
			RelatedTransactionID: parentID,
			IsSettled:            true,
		})
	}

	if downPayment.IsPositive() {
		parts = append(parts, models.Transaction{
			ID:                   utils.NewID(),
			Amount:               downPayment,
			Type:                 models.Expense,
			Role:                 models.RoleLoanDownPayment,
			CategoryID:           categoryID,
			SubCategory:          models.SubCategoryDownPayment,
			AccountID:            req.AccountID,
			Date:                 req.SetupDate,
			Note:                 "Downpayment: " + req.Name,
			Description:          "Setup cost for " + req.Name,
			Status:               models.StatusVerified,
			RelatedTransactionID: parentID,
			IsSettled:            true,
		})
	}

	remaining := 0
	for i := 0; i < req.TotalInstallments; i++ {
		date := addMonths(firstInstallment, i)
		status := models.StatusVerified
		if date.After(now) {
			status = models.StatusPending
			remaining++
		}
		parts = append(parts, models.Transaction{
			ID:                   utils.NewID(),
			Amount:               req.InstallmentFee,
			Type:                 models.Expense,
			Role:                 models.RoleLoanInstallment,
			CategoryID:           categoryID,
			SubCategory:          models.SubCategoryInstallment,
			AccountID:            req.AccountID,
			Date:                 date,
			Note:                 fmt.Sprintf("Installment %d/%d: %s", i+1, req.TotalInstallments, req.Name),
			Description:          "Monthly repayment for " + req.Name,
			Status:               status,
			RelatedTransactionID: parentID,
			IsSettlement:         true,
		})
	}
	parts[0].RemainingInstallments = remaining
	return parts, nil
}

// EditLoan rebuilds a facility under its existing id. The old header and its
// loan children are dropped, so installment history restarts. Repayments made
// against the facility are kept and still count against the new debt.
func EditLoan(l Ledger, parentID string, req models.LoanRequest, now time.Time) (Ledger, []models.Transaction, error) {
	parent, ok := l.Get(parentID)
	if !ok {
		return l, nil, ErrNotFound
	}
	if !parent.IsLoanParent {
		return l, nil, ErrNotLoanParent
	}
	parts, err := CreateLoan(req, parentID, now)
	if err != nil {
		return l, nil, err
	}

	ids := []string{parentID}
	repaid := decimal.Zero
	for _, child := range l.Children(parentID) {
		if child.Role == models.RoleSettlement {
			repaid = repaid.Add(child.Amount)
			continue
		}
		ids = append(ids, child.ID)
	}
	if repaid.IsPositive() {
		owed := decimal.Max(parts[0].SettledAmount.Sub(repaid), decimal.Zero)
		parts[0].SettledAmount = owed
		parts[0].IsSettled = !owed.IsPositive()
	}
	return l.Remove(ids...).Append(parts...), parts, nil
}

// DeleteLoan returns the ids removed with a facility: the header and every
// record that references it.
func DeleteLoan(l Ledger, parentID string) ([]string, error) {
	parent, ok := l.Get(parentID)
	if !ok {
		return nil, ErrNotFound
	}
	if !parent.IsLoanParent {
		return nil, ErrNotLoanParent
	}
	ids := []string{parentID}
	for _, child := range l.Children(parentID) {
		ids = append(ids, child.ID)
	}
	return ids, nil
}

// DeleteTransaction removes a record. Facilities cascade to their children
// and single installments are refused.
func DeleteTransaction(l Ledger, id string) (Ledger, []string, error) {
	tx, ok := l.Get(id)
	if !ok {
		return l, nil, ErrNotFound
	}
	if tx.IsLoanParent {
		ids, err := DeleteLoan(l, id)
		if err != nil {
			return l, nil, err
		}
		return l.Remove(ids...), ids, nil
	}
	if tx.Role == models.RoleLoanInstallment {
		return l, nil, ErrInstallmentDelete
	}
	return l.Remove(id), []string{id}, nil
}

// Progress reports how much of a facility's installments has been repaid.
func Progress(l Ledger, parentID string) (models.LoanProgress, error) {
	parent, ok := l.Get(parentID)
	if !ok {
		return models.LoanProgress{}, ErrNotFound
	}
	if !parent.IsLoanParent {
		return models.LoanProgress{}, ErrNotLoanParent
	}

	p := models.LoanProgress{
		ParentID:       parentID,
		TotalFacility:  parent.Amount,
		RepayableTotal: parent.InstallmentFee.Mul(decimal.NewFromInt(int64(parent.TotalInstallments))),
		Repaid:         decimal.Zero,
		Progress:       decimal.Zero,
	}
	for _, child := range l.Children(parentID) {
		if child.Type != models.Expense || child.Role == models.RoleLoanDownPayment {
			continue
		}
		if child.IsPending() {
			if p.NextInstallment == nil || child.Date.Before(p.NextInstallment.Date) {
				next := child
				p.NextInstallment = &next
			}
			continue
		}
		p.Repaid = p.Repaid.Add(child.Amount)
	}
	p.Remaining = decimal.Max(p.RepayableTotal.Sub(p.Repaid), decimal.Zero)
	if p.RepayableTotal.IsPositive() {
		p.Progress = p.Repaid.Div(p.RepayableTotal).Mul(hundred).Round(2)
	}
	return p, nil
}

// addMonths moves t by n calendar months, clamping to the last day of the
// target month (Jan 31 + 1 month is Feb 28 or 29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
