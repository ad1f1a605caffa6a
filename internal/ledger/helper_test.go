package ledger

import (
	"testing"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var day0 = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertDecimal(t *testing.T, want, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, want.Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func testAccounts() []models.Account {
	return []models.Account{
		{ID: "cash", Name: "Cash in Hand", Type: models.AccountCash, Balance: decimal.Zero},
		{ID: "bank", Name: "Savings Account", Type: models.AccountSavings, Balance: decimal.Zero},
		{ID: "fd", Name: "Fixed Deposit", Type: models.AccountFixedDeposit, Balance: decimal.Zero},
	}
}

func opening(id, account string, amount int64, on time.Time) models.Transaction {
	return models.Transaction{
		ID:         id,
		Amount:     d(amount),
		Type:       models.Income,
		Role:       models.RolePrimary,
		CategoryID: models.OpeningBalanceCategoryID,
		AccountID:  account,
		Date:       on,
		Status:     models.StatusVerified,
	}
}

func entry(id string, typ models.TransactionType, account string, amount int64, on time.Time, status models.Status) models.Transaction {
	return models.Transaction{
		ID:         id,
		Amount:     d(amount),
		Type:       typ,
		Role:       models.RolePrimary,
		CategoryID: "4",
		AccountID:  account,
		Date:       on,
		Status:     status,
	}
}

func byRole(txs []models.Transaction, role models.Role) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if tx.Role == role {
			out = append(out, tx)
		}
	}
	return out
}
