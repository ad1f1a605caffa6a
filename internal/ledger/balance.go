package ledger

import (
	"sort"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeBalance folds the ledger into the balance of one account.
//
// The fold starts at the account baseline and skips pending entries, loan
// facility headers and anything dated before the account's latest opening
// balance entry. Cash accounts never go below zero.
func ComputeBalance(accountID string, accounts []models.Account, l Ledger) decimal.Decimal {
	acc, ok := models.FindAccount(accounts, accountID)
	if !ok {
		return decimal.Zero
	}
	balance := fold(acc, l, "")
	if acc.Type == models.AccountCash {
		return decimal.Max(balance, decimal.Zero)
	}
	return balance
}

// AvailableBalance is the unclamped balance of an account ignoring the record
// excludeID, which is the one being edited.
func AvailableBalance(accountID string, accounts []models.Account, l Ledger, excludeID string) decimal.Decimal {
	acc, ok := models.FindAccount(accounts, accountID)
	if !ok {
		return decimal.Zero
	}
	return fold(acc, l, excludeID)
}

func fold(acc models.Account, l Ledger, excludeID string) decimal.Decimal {
	cutoff := openingCutoff(acc.ID, l)
	balance := acc.Balance
	for _, tx := range l.txs {
		if tx.ID == excludeID || tx.IsPending() || tx.IsLoanParent || tx.Date.Before(cutoff) {
			continue
		}
		balance = balance.Add(effect(tx, acc.ID))
	}
	return balance
}

// openingCutoff returns the date of the most recent opening balance entry of
// the account, or the zero time when it has none.
func openingCutoff(accountID string, l Ledger) time.Time {
	var cutoff time.Time
	for _, tx := range l.txs {
		if tx.AccountID != accountID || models.RoleOfCategory(tx.CategoryID) != models.CategoryOpeningBalance {
			continue
		}
		if tx.Date.After(cutoff) {
			cutoff = tx.Date
		}
	}
	return cutoff
}

// effect is the signed change tx makes to the account.
func effect(tx models.Transaction, accountID string) decimal.Decimal {
	delta := decimal.Zero
	if tx.AccountID == accountID {
		switch tx.Type {
		case models.Income:
			delta = delta.Add(tx.Amount)
		case models.Expense, models.Transfer:
			delta = delta.Sub(tx.Amount)
		}
	}
	if tx.Type == models.Transfer && tx.ToAccountID == accountID {
		delta = delta.Add(tx.Amount)
	}
	return delta
}

// Totals sums realized income and expense dated within [from, to]. A zero
// bound is open. Repayments of deferred debts are not new spending and are
// left out, while loan repayments count as expense.
func Totals(l Ledger, from, to time.Time) models.IncomeExpenseStats {
	stats := models.IncomeExpenseStats{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range l.txs {
		if tx.IsPending() || tx.IsLoanParent {
			continue
		}
		if (!from.IsZero() && tx.Date.Before(from)) || (!to.IsZero() && tx.Date.After(to)) {
			continue
		}
		switch tx.Type {
		case models.Income:
			if models.RoleOfCategory(tx.CategoryID) == models.CategoryOpeningBalance {
				continue
			}
			stats.Income = stats.Income.Add(tx.Amount)
		case models.Expense:
			if tx.IsSettlement && models.RoleOfCategory(tx.CategoryID) != models.CategoryLoanFacility {
				continue
			}
			amount := tx.Amount
			if tx.OriginalAmount.IsPositive() {
				amount = tx.OriginalAmount
			}
			stats.Expense = stats.Expense.Add(amount)
		}
	}
	stats.NetBalance = stats.Income.Sub(stats.Expense)
	return stats
}

// Summary reports every account balance together with total assets (negative
// balances count as zero) and the debt still outstanding across the ledger.
func Summary(accounts []models.Account, l Ledger) models.AccountsSummary {
	summary := models.AccountsSummary{TotalAssets: decimal.Zero, TotalOutstanding: decimal.Zero}
	for _, acc := range accounts {
		balance := ComputeBalance(acc.ID, accounts, l)
		summary.Balances = append(summary.Balances, models.AccountBalance{Account: acc, Balance: balance})
		summary.TotalAssets = summary.TotalAssets.Add(decimal.Max(balance, decimal.Zero))
	}
	for _, tx := range l.txs {
		if tx.HasDebt() {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(tx.SettledAmount)
		}
	}
	return summary
}

// Forecast projects the balance of an account over the next days, applying
// each pending entry on the day it is scheduled. Entries already overdue are
// applied on the first day.
func Forecast(accountID string, accounts []models.Account, l Ledger, from time.Time, days int) models.BalanceForecast {
	forecast := models.BalanceForecast{
		AccountID:      accountID,
		InitialBalance: ComputeBalance(accountID, accounts, l),
		ForecastedDays: days,
	}
	acc, ok := models.FindAccount(accounts, accountID)
	if !ok || days <= 0 {
		return forecast
	}

	cutoff := openingCutoff(accountID, l)
	var scheduled []models.Transaction
	for _, tx := range l.txs {
		if tx.IsPending() && !tx.IsLoanParent && !tx.Date.Before(cutoff) && !effect(tx, accountID).IsZero() {
			scheduled = append(scheduled, tx)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].Date.Before(scheduled[j].Date)
	})

	start := startOfDay(from)
	balance := forecast.InitialBalance
	next := 0
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		end := day.AddDate(0, 0, 1)
		for next < len(scheduled) && scheduled[next].Date.Before(end) {
			balance = balance.Add(effect(scheduled[next], accountID))
			next++
		}
		if acc.Type == models.AccountCash {
			balance = decimal.Max(balance, decimal.Zero)
		}
		forecast.DailyForecast = append(forecast.DailyForecast, models.DailyBalance{Date: day, Balance: balance})
	}
	return forecast
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
