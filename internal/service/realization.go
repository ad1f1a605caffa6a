package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/realization"
	"github.com/sirupsen/logrus"
)

// Prompt is the transaction currently offered for realization
type Prompt struct {
	Transaction  models.Transaction
	CategoryName string
	Waiting      int // items queued behind this one
}

// Refresh re-evaluates the realization queue against the clock and returns
// the presentation order
func (s *Service) Refresh() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.queue.QueueDue(s.ledger(), s.now())
	s.log.Debugf("Realization queue refreshed: %d due", len(order))
	return order
}

// CurrentRealization returns the presented item, if any
func (s *Service) CurrentRealization() (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt()
}

func (s *Service) prompt() (Prompt, bool) {
	id, ok := s.queue.Current()
	if !ok {
		return Prompt{}, false
	}
	tx, ok := s.ledger().Get(id)
	if !ok {
		return Prompt{}, false
	}
	name := s.state.CategoryName(tx.CategoryID)
	if tx.Role == models.RoleLoanInstallment {
		name = "Loan Installment"
	}
	return Prompt{Transaction: tx, CategoryName: name, Waiting: s.queue.Len() - 1}, true
}

// ConfirmRealization confirms the presented item with what actually happened
func (s *Service) ConfirmRealization(ctx context.Context, c models.Confirmation) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, tx, err := s.queue.ConfirmCurrent(s.ledger(), c, s.now())
	if err != nil {
		return tx, err
	}
	s.commit(ctx, s.withLedger(next))
	if tx.IsPending() {
		s.log.Infof("Realization moved: %s now due %s", tx.ID, tx.Date.Format(time.DateOnly))
	} else {
		s.log.Infof("Transaction realized: %s %s", tx.ID, tx.Amount)
	}
	return tx, nil
}

// RescheduleRealization moves the presented item to a later date
func (s *Service) RescheduleRealization(ctx context.Context, date time.Time) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, tx, err := s.queue.RescheduleCurrent(s.ledger(), date, s.now())
	if err != nil {
		return tx, err
	}
	s.commit(ctx, s.withLedger(next))
	s.log.Infof("Transaction rescheduled: %s to %s", tx.ID, date.Format(time.DateOnly))
	return tx, nil
}

// SkipRealization moves on without changing the presented item. It is
// offered again on the next refresh.
func (s *Service) SkipRealization() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.queue.SkipCurrent()
	if err != nil {
		return "", err
	}
	s.log.Debugf("Realization skipped: %s", id)
	return id, nil
}

// DismissRealization closes the prompt. The queue does not move.
func (s *Service) DismissRealization() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := s.queue.Dismiss(); id != "" {
		s.log.Debugf("Realization dismissed: %s", id)
	}
}

// ProcessNow presents a pending transaction right away, even before its date
func (s *Service) ProcessNow(id string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.ledger().Get(id)
	if !ok {
		return Prompt{}, ledger.ErrNotFound
	}
	if !tx.IsPending() {
		return Prompt{}, ledger.ErrNotPending
	}
	s.queue.Present(id)
	p, _ := s.prompt()
	return p, nil
}

// SendReminder delivers the daily realization reminder when one is due. It
// reports whether a reminder went out.
func (s *Service) SendReminder(ctx context.Context) (bool, error) {
	s.mu.Lock()
	notice, ok := realization.Reminder(s.state, s.now())
	ok = ok && s.state.HasOnboarded
	s.mu.Unlock()
	if !ok {
		s.log.Debug("No reminder due")
		return false, nil
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notice); err != nil {
			return false, fmt.Errorf("failed to deliver reminder: %w", err)
		}
	}
	s.log.WithFields(logrus.Fields{
		"title": notice.Title,
		"due":   notice.Count,
	}).Info(notice.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	next.LastNotificationDate = s.now()
	s.state = next
	s.persist(ctx)
	return true, nil
}
