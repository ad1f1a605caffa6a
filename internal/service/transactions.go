package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/utils"
	"github.com/shopspring/decimal"
)

// TransactionInput is a transaction as entered by the user
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        models.TransactionType
	CategoryID  string
	SubCategory string
	AccountID   string
	ToAccountID string
	Date        time.Time // zero means now
	Note        string
	Description string

	// Fee is a bank charge recorded as a separate expense next to a new
	// Expense or Transfer.
	Fee decimal.Decimal

	// ProceedAsSettlement accepts an outflow the account cannot cover. Only
	// PaidNow leaves the account and the rest stays owed on the record.
	// PaidNow defaults to what the account still holds.
	ProceedAsSettlement bool
	PaidNow             decimal.NullDecimal
}

func (in TransactionInput) validate(accounts []models.Account) error {
	if !in.Amount.IsPositive() {
		return &ledger.ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}
	if in.Fee.IsNegative() {
		return &ledger.ValidationError{Field: "fee", Reason: "fee cannot be negative"}
	}
	switch in.Type {
	case models.Income, models.Expense:
		if in.CategoryID == "" {
			return &ledger.ValidationError{Field: "category", Reason: "please select a category"}
		}
	case models.Transfer:
		if in.ToAccountID == "" {
			return &ledger.ValidationError{Field: "destination account", Reason: "please select a recipient account"}
		}
		if in.ToAccountID == in.AccountID {
			return &ledger.ValidationError{Field: "destination account", Reason: "cannot transfer to the same account"}
		}
		if _, ok := models.FindAccount(accounts, in.ToAccountID); !ok {
			return &ledger.ValidationError{Field: "destination account", Reason: "account not found"}
		}
	default:
		return &ledger.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown transaction type %q", in.Type)}
	}
	if in.AccountID == "" {
		return &ledger.ValidationError{Field: "account", Reason: "please select an account"}
	}
	if _, ok := models.FindAccount(accounts, in.AccountID); !ok {
		return &ledger.ValidationError{Field: "account", Reason: "account not found"}
	}
	if in.PaidNow.Valid && in.PaidNow.Decimal.IsNegative() {
		return &ledger.ValidationError{Field: "paid now", Reason: "amount cannot be negative"}
	}
	return nil
}

func (in TransactionInput) record(id string, now time.Time) models.Transaction {
	date := in.Date
	if date.IsZero() {
		date = now
	}
	status := models.StatusVerified
	if date.After(now) {
		status = models.StatusPending
	}
	description := in.Description
	if description == "" {
		description = "Transaction"
	}
	tx := models.Transaction{
		ID:          id,
		Amount:      in.Amount,
		Type:        in.Type,
		Role:        models.RolePrimary,
		CategoryID:  in.CategoryID,
		SubCategory: in.SubCategory,
		AccountID:   in.AccountID,
		Date:        date,
		Note:        in.Note,
		Description: description,
		Status:      status,
		IsSettled:   true,
	}
	if in.Type == models.Transfer {
		tx.CategoryID = ""
		tx.SubCategory = ""
		tx.ToAccountID = in.ToAccountID
	}
	return tx
}

// fund checks that the account covers a present-dated outflow of tx plus fee.
// When it does not, the record is either refused or, when the caller opted
// in, deferred with the uncovered part left owing.
func (s *Service) fund(l ledger.Ledger, tx models.Transaction, in TransactionInput, excludeID string) (models.Transaction, error) {
	if tx.IsPending() || tx.Type == models.Income {
		return tx, nil
	}
	required := tx.Amount.Add(in.Fee)
	short, balance := ledger.OutflowExceeds(tx.AccountID, s.state.Accounts, l, excludeID, required)
	if !short {
		return tx, nil
	}
	if !in.ProceedAsSettlement {
		return tx, &ledger.InsufficientFundsError{AccountID: tx.AccountID, Balance: balance, Required: required}
	}
	paid := decimal.Max(balance.Sub(in.Fee), decimal.Zero)
	if in.PaidNow.Valid {
		paid = in.PaidNow.Decimal
	}
	return ledger.Defer(tx, paid), nil
}

// AddTransaction records a new transaction. Dates after now are scheduled as
// pending and skip the funds check.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := in.validate(s.state.Accounts); err != nil {
		return models.Transaction{}, err
	}
	now := s.now()
	l := s.ledger()
	tx, err := s.fund(l, in.record(utils.NewID(), now), in, "")
	if err != nil {
		return models.Transaction{}, err
	}

	added := []models.Transaction{tx}
	if in.Fee.IsPositive() && tx.Type != models.Income {
		added = append(added, feeRecord(tx, in.Fee))
	}
	s.commit(ctx, s.withLedger(l.Append(added...)))

	if tx.HasDebt() {
		s.log.Infof("Transaction saved as settlement: %s %s paid, %s owed", tx.ID, tx.Amount, tx.SettledAmount)
	} else {
		s.log.Infof("Transaction added: %s %s %s (%s)", tx.ID, tx.Type, tx.Amount, tx.Status)
	}
	return tx, nil
}

func feeRecord(primary models.Transaction, fee decimal.Decimal) models.Transaction {
	label := primary.Note
	if label == "" {
		label = "Expense"
		if primary.Type == models.Transfer {
			label = "Fund Transfer"
		}
	}
	return models.Transaction{
		ID:                   utils.NewID(),
		Amount:               fee,
		Type:                 models.Expense,
		Role:                 models.RoleTransferFee,
		AccountID:            primary.AccountID,
		Date:                 primary.Date,
		Note:                 "Fee: " + label,
		Description:          "Bank Charge",
		Status:               primary.Status,
		IsSettled:            true,
		RelatedTransactionID: primary.ID,
	}
}

// EditTransaction replaces a record in place, keeping its id and role. Loan
// facilities are edited with EditLoan. Fee is ignored.
func (s *Service) EditTransaction(ctx context.Context, id string, in TransactionInput) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ledger()
	old, ok := l.Get(id)
	if !ok {
		return models.Transaction{}, ledger.ErrNotFound
	}
	if old.IsLoanParent {
		return models.Transaction{}, &ledger.ValidationError{Field: "transaction", Reason: "loan facilities are edited as a loan"}
	}
	in.Fee = decimal.Zero
	if err := in.validate(s.state.Accounts); err != nil {
		return models.Transaction{}, err
	}

	tx := in.record(id, s.now())
	tx.Role = old.Role
	tx.IsSettlement = old.IsSettlement
	tx.RelatedTransactionID = old.RelatedTransactionID
	tx, err := s.fund(l, tx, in, id)
	if err != nil {
		return models.Transaction{}, err
	}
	next, err := l.Replace(tx)
	if err != nil {
		return models.Transaction{}, err
	}
	s.commit(ctx, s.withLedger(next))
	s.log.Infof("Transaction updated: %s", id)
	return tx, nil
}

// DeleteTransaction removes a record. A loan facility takes every record that
// references it along; a single installment is refused.
func (s *Service) DeleteTransaction(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed, err := ledger.DeleteTransaction(s.ledger(), id)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, s.withLedger(next))
	s.log.Infof("Transaction deleted: %s (%d records removed)", id, len(removed))
	return removed, nil
}

// Onboard records the starting balances. Each positive balance becomes an
// opening balance income and every account baseline is reset to zero.
func (s *Service) Onboard(ctx context.Context, accounts []models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		if a.ID == "" || a.Name == "" {
			return &ledger.ValidationError{Field: "account", Reason: "accounts need an id and a name"}
		}
		if a.Balance.IsNegative() {
			return &ledger.ValidationError{Field: "balance", Reason: fmt.Sprintf("opening balance of %s cannot be negative", a.Name)}
		}
	}

	now := s.now()
	next := s.state.Clone()
	next.Accounts = make([]models.Account, 0, len(accounts))
	var opening []models.Transaction
	for _, a := range accounts {
		if a.Balance.IsPositive() {
			opening = append(opening, models.Transaction{
				ID:          utils.NewID(),
				Amount:      a.Balance,
				Type:        models.Income,
				Role:        models.RolePrimary,
				CategoryID:  models.OpeningBalanceCategoryID,
				AccountID:   a.ID,
				Date:        now,
				Note:        "Opening Balance",
				Description: "Opening Balance",
				Status:      models.StatusVerified,
				IsSettled:   true,
			})
		}
		a.Balance = decimal.Zero
		next.Accounts = append(next.Accounts, a)
	}
	next.Transactions = append(opening, next.Transactions...)
	next.HasOnboarded = true
	next.EnsureReservedCategories()
	s.commit(ctx, next)
	s.log.Infof("Onboarding complete: %d accounts, %d opening balances", len(accounts), len(opening))
	return nil
}
