package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	Income   TransactionType = "Income"
	Expense  TransactionType = "Expense"
	Transfer TransactionType = "Transfer"
)

// Status tells whether a transaction has actually occurred
type Status string

const (
	// StatusPending marks an entry scheduled for a future date and not yet confirmed.
	StatusPending Status = "pending"
	// StatusVerified marks an entry that occurred and takes part in balances.
	StatusVerified Status = "verified"
)

// LoanType distinguishes cash loans from asset (lease/hire purchase) facilities
type LoanType string

const (
	LoanCash  LoanType = "CASH"
	LoanAsset LoanType = "ASSET"
)

// Role is the part a transaction plays in the ledger. It is set once when the
// record is created.
type Role string

const (
	RolePrimary         Role = "primary"
	RoleTransferFee     Role = "transfer_fee"
	RoleLoanFacility    Role = "loan_facility"
	RoleLoanIncome      Role = "loan_income"
	RoleLoanDownPayment Role = "loan_down_payment"
	RoleLoanInstallment Role = "loan_installment"
	RoleSettlement      Role = "settlement"
)

// IsLoanChild reports whether r belongs to the decomposition of a loan facility.
func (r Role) IsLoanChild() bool {
	return r == RoleLoanIncome || r == RoleLoanDownPayment || r == RoleLoanInstallment
}

// Sub categories written on loan children.
const (
	SubCategoryDownPayment = "Down Payment"
	SubCategoryInstallment = "Installment"
)

// Transaction represents a single ledger entry
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Role        Role            `json:"role,omitempty"`
	CategoryID  string          `json:"categoryId"`
	SubCategory string          `json:"subCategory,omitempty"`
	AccountID   string          `json:"accountId"`
	ToAccountID string          `json:"toAccountId,omitempty"`
	Date        time.Time       `json:"date"`
	Note        string          `json:"note,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      Status          `json:"status,omitempty"`

	OriginalAmount       decimal.Decimal `json:"originalAmount,omitzero"`
	SettledAmount        decimal.Decimal `json:"settledAmount,omitzero"` // amount still owed
	IsSettled            bool            `json:"isSettled,omitempty"`
	IsSettlement         bool            `json:"isSettlement,omitempty"`
	RelatedTransactionID string          `json:"relatedTransactionId,omitempty"`

	// Loan facility header fields
	IsLoanParent          bool            `json:"isLoanParent,omitempty"`
	LoanType              LoanType        `json:"loanType,omitempty"`
	TotalInstallments     int             `json:"totalInstallments,omitempty"`
	RemainingInstallments int             `json:"remainingInstallments,omitempty"`
	InstallmentFee        decimal.Decimal `json:"installmentFee,omitzero"`
	DownPayment           decimal.Decimal `json:"downPayment,omitzero"`
	FirstInstallmentDate  time.Time       `json:"rescheduledFrom,omitzero"`
}

// IsPending reports whether t has not been realized yet.
func (t Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// HasDebt reports whether something is still owed on t.
func (t Transaction) HasDebt() bool {
	return !t.IsSettled && t.SettledAmount.IsPositive()
}
