package models

import "github.com/shopspring/decimal"

// AccountType is the kind of money holder an account models
type AccountType string

const (
	AccountCash         AccountType = "Cash"
	AccountSavings      AccountType = "Savings"
	AccountFixedDeposit AccountType = "Fixed Deposit"
)

// Account represents a place money is kept. Balance is the baseline recorded
// when the ledger was last reset or onboarded, not a live balance.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// FindAccount returns the account with the given id.
func FindAccount(accounts []Account, id string) (Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}
