// Package service owns the authoritative ledger state. It runs every engine
// operation against it, keeps the realization queue current and persists the
// result.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/realization"
	"github.com/Madushan-tech/CashFlow/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Repository stores the state document
type Repository interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
	Clear(ctx context.Context) error
}

// Notifier delivers realization reminders
type Notifier interface {
	Notify(ctx context.Context, notice realization.Notice) error
}

// Option configures a Service
type Option func(*Service)

// WithNotifier sets where reminders are delivered
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service handles business logic
type Service struct {
	mu       sync.Mutex
	repo     Repository
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time

	state *models.State
	queue *realization.Queue
}

// NewService initializes a new service holding a fresh ledger
func NewService(repo Repository, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		log:   log,
		now:   time.Now,
		state: models.DefaultState(),
		queue: realization.NewQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the stored one. A corrupt document
// is logged and replaced by a fresh ledger; any other failure is returned.
func (s *Service) Load(ctx context.Context) error {
	state, err := s.repo.Load(ctx)
	if errors.Is(err, repository.ErrCorruptState) {
		s.log.Errorf("Stored state unreadable, starting fresh: %v", err)
		state, err = models.DefaultState(), nil
	}
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.queue = realization.NewQueue()
	s.queue.QueueDue(s.ledger(), s.now())
	s.log.Infof("State loaded: %d transactions, %d awaiting realization", len(state.Transactions), s.queue.Len())
	return nil
}

// State returns a copy of the current state
func (s *Service) State() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Transaction returns a single record
func (s *Service) Transaction(id string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.ledger().Get(id)
	if !ok {
		return models.Transaction{}, ledger.ErrNotFound
	}
	return tx, nil
}

// Balance returns the live balance of an account
func (s *Service) Balance(accountID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.ComputeBalance(accountID, s.state.Accounts, s.ledger())
}

// Summary returns every account balance with asset and debt totals
func (s *Service) Summary() models.AccountsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Summary(s.state.Accounts, s.ledger())
}

// Totals returns income and expense between from and to, inclusive
func (s *Service) Totals(from, to time.Time) models.IncomeExpenseStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Totals(s.ledger(), from, to)
}

// Forecast projects an account balance over the next days
func (s *Service) Forecast(accountID string, days int) (models.BalanceForecast, error) {
	if days <= 0 {
		return models.BalanceForecast{}, &ledger.ValidationError{Field: "days", Reason: "forecast days must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := models.FindAccount(s.state.Accounts, accountID); !ok {
		return models.BalanceForecast{}, &ledger.ValidationError{Field: "account", Reason: "account not found"}
	}
	return ledger.Forecast(accountID, s.state.Accounts, s.ledger(), s.now(), days), nil
}

// LoanProgress reports repayment progress of a facility
func (s *Service) LoanProgress(parentID string) (models.LoanProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.Progress(s.ledger(), parentID)
}

func (s *Service) ledger() ledger.Ledger {
	return ledger.New(s.state.Transactions)
}

// commit swaps in next, re-evaluates the realization queue and persists.
// Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next *models.State) {
	s.state = next
	s.queue.QueueDue(s.ledger(), s.now())
	s.persist(ctx)
}

// withLedger returns a copy of the current state holding l.
func (s *Service) withLedger(l ledger.Ledger) *models.State {
	next := s.state.Clone()
	next.Transactions = l.Transactions()
	return next
}

func (s *Service) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.state); err != nil {
		s.log.Errorf("Failed to persist state: %v", err)
		return
	}
	s.log.Debug("State persisted")
}
