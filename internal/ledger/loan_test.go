package ledger

import (
	"testing"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashLoan() models.LoanRequest {
	return models.LoanRequest{
		LoanType:             models.LoanCash,
		Amount:               d(12000),
		TotalInstallments:    12,
		InstallmentFee:       d(1000),
		SetupDate:            day0,
		FirstInstallmentDate: day0.AddDate(0, 1, 0),
		AccountID:            "bank",
		Name:                 "Personal loan",
	}
}

func assetLoan() models.LoanRequest {
	return models.LoanRequest{
		LoanType:          models.LoanAsset,
		Amount:            d(50000),
		DownPayment:       d(5000),
		TotalInstallments: 9,
		InstallmentFee:    d(5000),
		SetupDate:         day0,
		AccountID:         "bank",
		Name:              "Motorbike",
	}
}

func TestCreateLoan_Cash(t *testing.T) {
	parts, err := CreateLoan(cashLoan(), "", day0)
	require.NoError(t, err)
	require.Len(t, parts, 14)

	parent := parts[0]
	assert.True(t, parent.IsLoanParent)
	assert.Equal(t, models.RoleLoanFacility, parent.Role)
	assert.Equal(t, models.StatusVerified, parent.Status)
	assert.NotEmpty(t, parent.ID)
	assert.Empty(t, parent.RelatedTransactionID)
	assertDecimal(t, d(12000), parent.Amount)
	assertDecimal(t, d(12000), parent.SettledAmount)
	assert.False(t, parent.IsSettled)
	assert.Equal(t, 12, parent.RemainingInstallments)
	assert.Equal(t, models.LoanCategoryID, parent.CategoryID)

	income := parts[1]
	assert.Equal(t, models.RoleLoanIncome, income.Role)
	assert.Equal(t, models.Income, income.Type)
	assertDecimal(t, d(12000), income.Amount)
	assert.True(t, income.IsSettled)
	assert.Equal(t, parent.ID, income.RelatedTransactionID)

	assert.Empty(t, byRole(parts, models.RoleLoanDownPayment))

	installments := byRole(parts, models.RoleLoanInstallment)
	require.Len(t, installments, 12)
	for i, inst := range installments {
		assert.Equal(t, day0.AddDate(0, i+1, 0), inst.Date, "installment %d", i+1)
		assert.Equal(t, models.Expense, inst.Type)
		assert.Equal(t, models.SubCategoryInstallment, inst.SubCategory)
		assert.Equal(t, models.StatusPending, inst.Status)
		assert.True(t, inst.IsSettlement)
		assert.Equal(t, parent.ID, inst.RelatedTransactionID)
		assertDecimal(t, d(1000), inst.Amount)
	}

	l := New(parts)
	res, err := SettleFacility(l, parent.ID, models.Payment{Amount: d(1000), Date: day0}, day0)
	require.NoError(t, err)
	assertDecimal(t, d(11000), res.Updated.SettledAmount)
	assert.False(t, res.Updated.IsSettled)
}

func TestCreateLoan_Asset(t *testing.T) {
	parts, err := CreateLoan(assetLoan(), "asset-1", day0)
	require.NoError(t, err)

	parent := parts[0]
	assert.Equal(t, "asset-1", parent.ID)
	assertDecimal(t, d(45000), parent.SettledAmount)
	assertDecimal(t, d(5000), parent.DownPayment)
	assert.Equal(t, day0.AddDate(0, 1, 0), parent.FirstInstallmentDate, "first installment defaults to one month after setup")

	assert.Empty(t, byRole(parts, models.RoleLoanIncome))

	dps := byRole(parts, models.RoleLoanDownPayment)
	require.Len(t, dps, 1)
	assert.Equal(t, models.Expense, dps[0].Type)
	assert.Equal(t, models.SubCategoryDownPayment, dps[0].SubCategory)
	assert.Equal(t, day0, dps[0].Date)
	assert.True(t, dps[0].IsSettled)
	assertDecimal(t, d(5000), dps[0].Amount)

	// Total facility value is preserved by the decomposition.
	installments := byRole(parts, models.RoleLoanInstallment)
	require.Len(t, installments, 9)
	total := parent.DownPayment
	for _, inst := range installments {
		total = total.Add(inst.Amount)
	}
	assertDecimal(t, parent.Amount, total)
}

func TestCreateLoan_CashIgnoresDownPayment(t *testing.T) {
	req := cashLoan()
	req.DownPayment = d(3000)
	parts, err := CreateLoan(req, "", day0)
	require.NoError(t, err)
	assert.Empty(t, byRole(parts, models.RoleLoanDownPayment))
	assert.True(t, parts[0].DownPayment.IsZero())
	assertDecimal(t, d(12000), parts[0].SettledAmount)
}

func TestCreateLoan_PastInstallmentsAreVerified(t *testing.T) {
	req := cashLoan()
	req.SetupDate = day0.AddDate(0, -4, 0)
	req.FirstInstallmentDate = day0.AddDate(0, -3, 0)

	parts, err := CreateLoan(req, "", day0)
	require.NoError(t, err)
	installments := byRole(parts, models.RoleLoanInstallment)
	for i, inst := range installments {
		want := models.StatusPending
		if i <= 3 {
			want = models.StatusVerified
		}
		assert.Equal(t, want, inst.Status, "installment %d", i+1)
	}
	assert.Equal(t, 8, parts[0].RemainingInstallments)
}

func TestCreateLoan_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.LoanRequest)
		field  string
	}{
		{name: "zero amount", mutate: func(r *models.LoanRequest) { r.Amount = decimal.Zero }, field: "amount"},
		{name: "missing account", mutate: func(r *models.LoanRequest) { r.AccountID = "" }, field: "account"},
		{name: "blank name", mutate: func(r *models.LoanRequest) { r.Name = "  " }, field: "name"},
		{name: "unknown type", mutate: func(r *models.LoanRequest) { r.LoanType = "LEASE" }, field: "loan type"},
		{name: "negative installments", mutate: func(r *models.LoanRequest) { r.TotalInstallments = -1 }, field: "installments"},
		{name: "negative fee", mutate: func(r *models.LoanRequest) { r.InstallmentFee = d(-1) }, field: "installment fee"},
		{name: "down payment above amount", mutate: func(r *models.LoanRequest) { r.DownPayment = d(60000) }, field: "down payment"},
		{name: "missing date", mutate: func(r *models.LoanRequest) { r.SetupDate = time.Time{} }, field: "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := assetLoan()
			tt.mutate(&req)
			parts, err := CreateLoan(req, "", day0)
			require.Error(t, err)
			assert.Nil(t, parts)
			var v *ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestEditLoan_KeepsIDAndRepayments(t *testing.T) {
	parts, err := CreateLoan(cashLoan(), "facility", day0)
	require.NoError(t, err)
	other := entry("other", models.Expense, "bank", 10, day0, models.StatusVerified)
	l := New(append(parts, other))

	res, err := SettleFacility(l, "facility", models.Payment{Amount: d(2000), Date: day0}, day0)
	require.NoError(t, err)
	l = res.Ledger

	req := cashLoan()
	req.Amount = d(6000)
	req.TotalInstallments = 6
	l, rebuilt, err := EditLoan(l, "facility", req, day0)
	require.NoError(t, err)

	assert.Equal(t, "facility", rebuilt[0].ID)
	parent, ok := l.Get("facility")
	require.True(t, ok)
	assertDecimal(t, d(6000), parent.Amount)
	assertDecimal(t, d(4000), parent.SettledAmount, "earlier repayments still count")

	children := l.Children("facility")
	assert.Len(t, byRole(children, models.RoleLoanInstallment), 6)
	assert.Len(t, byRole(children, models.RoleLoanIncome), 1)
	settlements := byRole(children, models.RoleSettlement)
	require.Len(t, settlements, 1)
	assert.Equal(t, res.Repayment.ID, settlements[0].ID)

	_, ok = l.Get("other")
	assert.True(t, ok)
	assert.Equal(t, 1+1+6+1+1, l.Len())
}

func TestEditLoan_Errors(t *testing.T) {
	parts, err := CreateLoan(cashLoan(), "facility", day0)
	require.NoError(t, err)
	l := New(append(parts, entry("plain", models.Expense, "bank", 1, day0, models.StatusVerified)))

	_, _, err = EditLoan(l, "missing", cashLoan(), day0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = EditLoan(l, "plain", cashLoan(), day0)
	assert.ErrorIs(t, err, ErrNotLoanParent)

	bad := cashLoan()
	bad.Amount = decimal.Zero
	unchanged, _, err := EditLoan(l, "facility", bad, day0)
	assert.True(t, IsValidation(err))
	assert.Equal(t, l.Len(), unchanged.Len())
}

func TestDeleteTransaction(t *testing.T) {
	loanA, err := CreateLoan(assetLoan(), "a", day0)
	require.NoError(t, err)
	loanB, err := CreateLoan(cashLoan(), "b", day0)
	require.NoError(t, err)
	plain := entry("plain", models.Expense, "bank", 1, day0, models.StatusVerified)

	var all []models.Transaction
	all = append(all, loanA...)
	all = append(all, loanB...)
	all = append(all, plain)
	l := New(all)

	t.Run("parent cascades to exactly its children", func(t *testing.T) {
		next, removed, err := DeleteTransaction(l, "a")
		require.NoError(t, err)
		assert.Len(t, removed, len(loanA))
		assert.Equal(t, l.Len()-len(loanA), next.Len())
		for _, tx := range next.Transactions() {
			assert.NotEqual(t, "a", tx.ID)
			assert.NotEqual(t, "a", tx.RelatedTransactionID)
		}
		assert.Len(t, next.Children("b"), len(loanB)-1)
	})

	t.Run("installment is refused", func(t *testing.T) {
		inst := byRole(loanA, models.RoleLoanInstallment)[0]
		next, removed, err := DeleteTransaction(l, inst.ID)
		assert.ErrorIs(t, err, ErrInstallmentDelete)
		assert.Nil(t, removed)
		assert.Equal(t, l.Len(), next.Len())
	})

	t.Run("down payment and income can go alone", func(t *testing.T) {
		dp := byRole(loanA, models.RoleLoanDownPayment)[0]
		next, removed, err := DeleteTransaction(l, dp.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{dp.ID}, removed)
		assert.Equal(t, l.Len()-1, next.Len())

		income := byRole(loanB, models.RoleLoanIncome)[0]
		_, removed, err = DeleteTransaction(l, income.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{income.ID}, removed)
	})

	t.Run("plain record", func(t *testing.T) {
		next, _, err := DeleteTransaction(l, "plain")
		require.NoError(t, err)
		_, ok := next.Get("plain")
		assert.False(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := DeleteTransaction(l, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteLoan(t *testing.T) {
	parts, err := CreateLoan(assetLoan(), "a", day0)
	require.NoError(t, err)
	l := New(parts)

	ids, err := DeleteLoan(l, "a")
	require.NoError(t, err)
	assert.Len(t, ids, len(parts))
	assert.Equal(t, "a", ids[0])

	_, err = DeleteLoan(l, parts[1].ID)
	assert.ErrorIs(t, err, ErrNotLoanParent)
}

func TestProgress(t *testing.T) {
	req := assetLoan()
	req.SetupDate = day0.AddDate(0, -3, 0)
	parts, err := CreateLoan(req, "a", day0)
	require.NoError(t, err)
	l := New(parts)

	p, err := Progress(l, "a")
	require.NoError(t, err)
	assertDecimal(t, d(50000), p.TotalFacility)
	assertDecimal(t, d(45000), p.RepayableTotal)
	// Installments at -2m, -1m and day0 have passed.
	assertDecimal(t, d(15000), p.Repaid)
	assertDecimal(t, d(30000), p.Remaining)
	assertDecimal(t, decimal.RequireFromString("33.33"), p.Progress)
	require.NotNil(t, p.NextInstallment)
	assert.Equal(t, day0.AddDate(0, 1, 0), p.NextInstallment.Date)

	_, err = Progress(l, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{in: time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC), n: 1, want: time.Date(2025, 2, 28, 8, 30, 0, 0, time.UTC)},
		{in: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), n: 1, want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{in: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), n: 3, want: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{in: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), n: 2, want: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{in: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), n: 0, want: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, addMonths(tt.in, tt.n), "%v + %d months", tt.in, tt.n)
	}
}
