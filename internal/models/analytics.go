package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeExpenseStats represents income and expense totals over a period
type IncomeExpenseStats struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// LoanProgress represents repayment progress of a loan facility
type LoanProgress struct {
	ParentID        string          `json:"parent_id"`
	TotalFacility   decimal.Decimal `json:"total_facility"`
	RepayableTotal  decimal.Decimal `json:"repayable_total"` // installments * fee
	Repaid          decimal.Decimal `json:"repaid"`
	Remaining       decimal.Decimal `json:"remaining"`
	Progress        decimal.Decimal `json:"progress"` // percentage
	NextInstallment *Transaction    `json:"next_installment,omitempty"`
}

// AccountBalance pairs an account with its computed balance
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountsSummary represents the asset and debt position across accounts
type AccountsSummary struct {
	Balances         []AccountBalance `json:"balances"`
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalOutstanding decimal.Decimal  `json:"total_outstanding"`
}

// BalanceForecast represents balance forecast for N days
type BalanceForecast struct {
	AccountID      string          `json:"account_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	ForecastedDays int             `json:"forecasted_days"`
	DailyForecast  []DailyBalance  `json:"daily_forecast"`
}

// DailyBalance represents balance for a specific day
type DailyBalance struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}
