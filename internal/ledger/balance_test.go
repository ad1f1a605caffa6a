package ledger

import (
	"testing"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBalance_OpeningPendingRealize(t *testing.T) {
	accounts := testAccounts()
	l := New([]models.Transaction{opening("open", "cash", 10000, day0)})
	assertDecimal(t, d(10000), ComputeBalance("cash", accounts, l))

	tomorrow := day0.AddDate(0, 0, 1)
	l = l.Append(entry("groceries", models.Expense, "cash", 2000, tomorrow, models.StatusPending))
	assertDecimal(t, d(10000), ComputeBalance("cash", accounts, l), "pending expense must not count")

	now := day0.Add(3 * time.Hour)
	l, realized, err := Realize(l, "groceries", models.Confirmation{Amount: d(1500), Date: now}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, realized.Status)
	assertDecimal(t, d(8500), ComputeBalance("cash", accounts, l))
}

func TestComputeBalance(t *testing.T) {
	before := day0.AddDate(0, 0, -10)
	after := day0.AddDate(0, 0, 3)

	parent := entry("loan", models.Expense, "bank", 50000, after, models.StatusVerified)
	parent.IsLoanParent = true

	transfer := entry("move", models.Transfer, "bank", 700, after, models.StatusVerified)
	transfer.ToAccountID = "cash"

	tests := []struct {
		name    string
		account string
		txs     []models.Transaction
		want    decimal.Decimal
	}{
		{
			name:    "unknown account",
			account: "nope",
			txs:     []models.Transaction{opening("o", "cash", 100, day0)},
			want:    decimal.Zero,
		},
		{
			name:    "history before opening balance is ignored",
			account: "bank",
			txs: []models.Transaction{
				entry("old", models.Expense, "bank", 400, before, models.StatusVerified),
				opening("o", "bank", 1000, day0),
				entry("new", models.Expense, "bank", 300, after, models.StatusVerified),
			},
			want: d(700),
		},
		{
			name:    "latest opening balance wins",
			account: "bank",
			txs: []models.Transaction{
				opening("o1", "bank", 1000, before),
				entry("mid", models.Income, "bank", 50, before.AddDate(0, 0, 1), models.StatusVerified),
				opening("o2", "bank", 2000, day0),
			},
			want: d(2000),
		},
		{
			name:    "loan facility header is skipped",
			account: "bank",
			txs:     []models.Transaction{opening("o", "bank", 1000, day0), parent},
			want:    d(1000),
		},
		{
			name:    "transfer moves money between accounts",
			account: "cash",
			txs:     []models.Transaction{opening("o", "bank", 1000, day0), transfer},
			want:    d(700),
		},
		{
			name:    "transfer debits its source",
			account: "bank",
			txs:     []models.Transaction{opening("o", "bank", 1000, day0), transfer},
			want:    d(300),
		},
		{
			name:    "cash clamps at zero",
			account: "cash",
			txs: []models.Transaction{
				opening("o", "cash", 100, day0),
				entry("big", models.Expense, "cash", 500, after, models.StatusVerified),
			},
			want: decimal.Zero,
		},
		{
			name:    "savings may go negative",
			account: "bank",
			txs: []models.Transaction{
				opening("o", "bank", 100, day0),
				entry("big", models.Expense, "bank", 500, after, models.StatusVerified),
			},
			want: d(-400),
		},
		{
			name:    "fixed deposit is not clamped",
			account: "fd",
			txs:     []models.Transaction{entry("x", models.Expense, "fd", 5, after, models.StatusVerified)},
			want:    d(-5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalance(tt.account, testAccounts(), New(tt.txs))
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestComputeBalance_UsesBaseline(t *testing.T) {
	accounts := testAccounts()
	accounts[1].Balance = d(250)
	l := New([]models.Transaction{entry("x", models.Income, "bank", 50, day0, models.StatusVerified)})
	assertDecimal(t, d(300), ComputeBalance("bank", accounts, l))
}

func TestComputeBalance_PendingNeverChangesBalance(t *testing.T) {
	accounts := testAccounts()
	l := New([]models.Transaction{
		opening("o1", "cash", 500, day0),
		opening("o2", "bank", 800, day0),
		entry("spent", models.Expense, "bank", 100, day0.AddDate(0, 0, 1), models.StatusVerified),
	})

	pending := []models.Transaction{
		entry("p1", models.Expense, "cash", 300, day0.AddDate(0, 1, 0), models.StatusPending),
		entry("p2", models.Income, "bank", 900, day0.AddDate(0, 0, -1), models.StatusPending),
		{ID: "p3", Amount: d(50), Type: models.Transfer, AccountID: "bank", ToAccountID: "fd", Date: day0, Status: models.StatusPending},
	}
	for _, p := range pending {
		next := l.Append(p)
		for _, acc := range accounts {
			assertDecimal(t, ComputeBalance(acc.ID, accounts, l), ComputeBalance(acc.ID, accounts, next), p.ID, acc.ID)
		}
	}
}

func TestAvailableBalance_ExcludesEditedRecord(t *testing.T) {
	accounts := testAccounts()
	l := New([]models.Transaction{
		opening("o", "cash", 100, day0),
		entry("edit-me", models.Expense, "cash", 300, day0.AddDate(0, 0, 1), models.StatusVerified),
	})
	assertDecimal(t, d(-200), AvailableBalance("cash", accounts, l, ""))
	assertDecimal(t, d(100), AvailableBalance("cash", accounts, l, "edit-me"))

	over, balance := OutflowExceeds("cash", accounts, l, "edit-me", d(150))
	assert.True(t, over)
	assertDecimal(t, d(100), balance)
}

func TestTotals(t *testing.T) {
	deferred := entry("deferred-repay", models.Expense, "bank", 40, day0, models.StatusVerified)
	deferred.IsSettlement = true

	installment := entry("inst", models.Expense, "bank", 100, day0, models.StatusVerified)
	installment.IsSettlement = true
	installment.CategoryID = models.LoanCategoryID

	partial := entry("partial", models.Expense, "bank", 60, day0, models.StatusVerified)
	partial.OriginalAmount = d(90)

	parent := entry("parent", models.Expense, "bank", 5000, day0, models.StatusVerified)
	parent.IsLoanParent = true

	l := New([]models.Transaction{
		opening("o", "bank", 1000, day0),
		entry("salary", models.Income, "bank", 3000, day0, models.StatusVerified),
		entry("future-salary", models.Income, "bank", 3000, day0, models.StatusPending),
		entry("old", models.Expense, "bank", 999, day0.AddDate(0, -2, 0), models.StatusVerified),
		deferred, installment, partial, parent,
	})

	stats := Totals(l, day0.AddDate(0, 0, -7), time.Time{})
	assertDecimal(t, d(3000), stats.Income)
	assertDecimal(t, d(190), stats.Expense)
	assertDecimal(t, d(2810), stats.NetBalance)
}

func TestSummary(t *testing.T) {
	owing := entry("owing", models.Expense, "bank", 100, day0, models.StatusVerified)
	owing.SettledAmount = d(400)

	l := New([]models.Transaction{
		opening("o1", "cash", 500, day0),
		opening("o2", "bank", 50, day0),
		owing,
		entry("fd-out", models.Expense, "fd", 20, day0, models.StatusVerified),
	})
	s := Summary(testAccounts(), l)
	require.Len(t, s.Balances, 3)
	assertDecimal(t, d(500), s.Balances[0].Balance)
	assertDecimal(t, d(-50), s.Balances[1].Balance)
	assertDecimal(t, d(-20), s.Balances[2].Balance)
	assertDecimal(t, d(500), s.TotalAssets)
	assertDecimal(t, d(400), s.TotalOutstanding)
}

func TestForecast(t *testing.T) {
	l := New([]models.Transaction{
		opening("o", "bank", 1000, day0.AddDate(0, 0, -1)),
		entry("overdue", models.Expense, "bank", 100, day0.AddDate(0, 0, -1), models.StatusPending),
		entry("rent", models.Expense, "bank", 300, day0.AddDate(0, 0, 2), models.StatusPending),
		entry("salary", models.Income, "bank", 500, day0.AddDate(0, 0, 2).Add(time.Hour), models.StatusPending),
		entry("far", models.Expense, "bank", 5000, day0.AddDate(0, 1, 0), models.StatusPending),
	})

	f := Forecast("bank", testAccounts(), l, day0, 4)
	assertDecimal(t, d(1000), f.InitialBalance)
	require.Len(t, f.DailyForecast, 4)
	assertDecimal(t, d(900), f.DailyForecast[0].Balance)
	assertDecimal(t, d(900), f.DailyForecast[1].Balance)
	assertDecimal(t, d(1100), f.DailyForecast[2].Balance)
	assertDecimal(t, d(1100), f.DailyForecast[3].Balance)
	assert.Equal(t, time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC), f.DailyForecast[2].Date)
}
