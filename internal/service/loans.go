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

// CreateLoan decomposes a facility into its ledger records
func (s *Service) CreateLoan(ctx context.Context, req models.LoanRequest) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindAccount(s.state.Accounts, req.AccountID); !ok {
		return nil, &ledger.ValidationError{Field: "account", Reason: "account not found"}
	}
	parts, err := ledger.CreateLoan(req, utils.NewID(), s.now())
	if err != nil {
		return nil, err
	}
	next := s.withLedger(s.ledger().Append(parts...))
	next.EnsureReservedCategories()
	s.commit(ctx, next)
	s.log.Infof("Loan created: %s %s %s over %d installments", parts[0].ID, req.LoanType, req.Amount, req.TotalInstallments)
	return parts, nil
}

// EditLoan rebuilds a facility under its existing id
func (s *Service) EditLoan(ctx context.Context, parentID string, req models.LoanRequest) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := models.FindAccount(s.state.Accounts, req.AccountID); !ok {
		return nil, &ledger.ValidationError{Field: "account", Reason: "account not found"}
	}
	l, parts, err := ledger.EditLoan(s.ledger(), parentID, req, s.now())
	if err != nil {
		return nil, err
	}
	next := s.withLedger(l)
	next.EnsureReservedCategories()
	s.commit(ctx, next)
	s.log.Infof("Loan updated: %s", parentID)
	return parts, nil
}

// SettlementQuote prefills a repayment for a debt-bearing record. The amount
// is one installment when the facility has a fee, otherwise the full due.
func (s *Service) SettlementQuote(id string) (models.Payment, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.ledger().Get(id)
	if !ok {
		return models.Payment{}, decimal.Zero, ledger.ErrNotFound
	}
	if !tx.HasDebt() {
		return models.Payment{}, decimal.Zero, ledger.ErrNoDebt
	}
	due := tx.SettledAmount
	amount := due
	if tx.InstallmentFee.IsPositive() {
		amount = decimal.Min(tx.InstallmentFee, due)
	}
	return models.Payment{Amount: amount, AccountID: tx.AccountID, Date: s.now()}, due, nil
}

// SettleFacility records a repayment against a loan facility
func (s *Service) SettleFacility(ctx context.Context, parentID string, p models.Payment) (ledger.SettlementResult, error) {
	return s.settle(ctx, parentID, p, ledger.SettleFacility)
}

// SettleDeferred records a repayment against a transaction saved as a
// settlement
func (s *Service) SettleDeferred(ctx context.Context, id string, p models.Payment) (ledger.SettlementResult, error) {
	return s.settle(ctx, id, p, ledger.SettleDeferred)
}

type settleFunc func(l ledger.Ledger, id string, p models.Payment, now time.Time) (ledger.SettlementResult, error)

func (s *Service) settle(ctx context.Context, id string, p models.Payment, fn settleFunc) (ledger.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.ledger()
	now := s.now()
	target, ok := l.Get(id)
	if !ok {
		return ledger.SettlementResult{Ledger: l}, ledger.ErrNotFound
	}
	if target.HasDebt() && p.Amount.GreaterThan(target.SettledAmount) {
		return ledger.SettlementResult{Ledger: l}, &ledger.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("amount exceeds due amount of %s", target.SettledAmount),
		}
	}
	accountID := p.AccountID
	if accountID == "" {
		accountID = target.AccountID
	}
	if _, ok := models.FindAccount(s.state.Accounts, accountID); !ok {
		return ledger.SettlementResult{Ledger: l}, &ledger.ValidationError{Field: "account", Reason: "account not found"}
	}
	if p.Date.IsZero() || !p.Date.After(now) {
		if short, balance := ledger.OutflowExceeds(accountID, s.state.Accounts, l, "", p.Amount); short {
			return ledger.SettlementResult{Ledger: l}, &ledger.InsufficientFundsError{AccountID: accountID, Balance: balance, Required: p.Amount}
		}
	}

	res, err := fn(l, id, p, now)
	if err != nil {
		return res, err
	}
	s.commit(ctx, s.withLedger(res.Ledger))
	s.log.Infof("Settlement recorded: %s paid %s, %s still owed", id, p.Amount, res.Updated.SettledAmount)
	return res, nil
}
