package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRequest describes a loan facility to decompose into ledger entries
type LoanRequest struct {
	LoanType             LoanType        `json:"loanType"`
	Amount               decimal.Decimal `json:"amount"` // total facility value
	DownPayment          decimal.Decimal `json:"downPayment"`
	TotalInstallments    int             `json:"totalInstallments"`
	InstallmentFee       decimal.Decimal `json:"installmentFee"`
	SetupDate            time.Time       `json:"setupDate"`
	FirstInstallmentDate time.Time       `json:"firstInstallmentDate"` // zero means one month after setup
	AccountID            string          `json:"accountId"`
	CategoryID           string          `json:"categoryId,omitempty"` // defaults to the loan category
	Name                 string          `json:"name"`
	Note                 string          `json:"note,omitempty"`
}

// Payment is a repayment made against an outstanding debt
type Payment struct {
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"accountId,omitempty"` // defaults to the debt's account
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
}

// Confirmation carries what actually happened to a scheduled transaction
type Confirmation struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	// LoanDeficit is the unpaid part when the realization is only partly
	// covered by the account; zero means fully paid.
	LoanDeficit decimal.Decimal `json:"loanDeficit,omitzero"`
}
