// Package realization offers due scheduled transactions to the user one at a
// time for confirmation, rescheduling or skipping.
package realization

import (
	"errors"
	"slices"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
)

// ErrNothingPresented is returned by operations on the current item when the
// queue is empty.
var ErrNothingPresented = errors.New("no transaction awaiting realization")

// Queue is a FIFO of due transaction ids with at most one id presented.
//
// Queue is not safe for concurrent use.
type Queue struct {
	current string
	waiting []string

	// forced holds ids put in front of the user by Present before their date.
	forced map[string]struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{forced: make(map[string]struct{})}
}

// QueueDue re-evaluates the queue against the ledger at now. Newly due ids go
// to the tail, oldest first; ids already waiting or presented are not
// duplicated and a presented id that is still due is never replaced. Ids that
// are no longer due are dropped unless Present forced them and they are still
// pending. It returns the presentation order.
func (q *Queue) QueueDue(l ledger.Ledger, now time.Time) []string {
	due := l.Due(now)
	dueSet := make(map[string]struct{}, len(due))
	for _, tx := range due {
		dueSet[tx.ID] = struct{}{}
	}
	keep := func(id string) bool {
		if _, ok := dueSet[id]; ok {
			return true
		}
		if _, ok := q.forced[id]; ok {
			if tx, found := l.Get(id); found && tx.IsPending() {
				return true
			}
		}
		delete(q.forced, id)
		return false
	}

	q.waiting = slices.DeleteFunc(q.waiting, func(id string) bool { return !keep(id) })
	if q.current != "" && !keep(q.current) {
		q.current = ""
	}

	for _, tx := range due {
		if tx.ID == q.current || slices.Contains(q.waiting, tx.ID) {
			continue
		}
		q.waiting = append(q.waiting, tx.ID)
	}
	if q.current == "" {
		q.Advance()
	}
	return q.Order()
}

// Current returns the presented id.
func (q *Queue) Current() (string, bool) {
	return q.current, q.current != ""
}

// Order returns the presented id followed by the waiting ids.
func (q *Queue) Order() []string {
	var out []string
	if q.current != "" {
		out = append(out, q.current)
	}
	return append(out, q.waiting...)
}

// Len returns the number of ids presented or waiting.
func (q *Queue) Len() int {
	n := len(q.waiting)
	if q.current != "" {
		n++
	}
	return n
}

// Advance presents the next waiting id, if any.
func (q *Queue) Advance() (string, bool) {
	delete(q.forced, q.current)
	if len(q.waiting) == 0 {
		q.current = ""
		return "", false
	}
	q.current = q.waiting[0]
	q.waiting = q.waiting[1:]
	return q.current, true
}

// ConfirmCurrent realizes the presented transaction and advances. On error
// the queue is left as it was.
func (q *Queue) ConfirmCurrent(l ledger.Ledger, c models.Confirmation, now time.Time) (ledger.Ledger, models.Transaction, error) {
	if q.current == "" {
		return l, models.Transaction{}, ErrNothingPresented
	}
	next, tx, err := ledger.Realize(l, q.current, c, now)
	if err != nil {
		return l, tx, err
	}
	q.Advance()
	return next, tx, nil
}

// RescheduleCurrent moves the presented transaction to date and advances.
func (q *Queue) RescheduleCurrent(l ledger.Ledger, date, now time.Time) (ledger.Ledger, models.Transaction, error) {
	if q.current == "" {
		return l, models.Transaction{}, ErrNothingPresented
	}
	next, tx, err := ledger.Reschedule(l, q.current, date, now)
	if err != nil {
		return l, tx, err
	}
	q.Advance()
	return next, tx, nil
}

// SkipCurrent advances without touching the presented transaction. It is
// offered again on a later re-evaluation while it stays due.
func (q *Queue) SkipCurrent() (string, error) {
	if q.current == "" {
		return "", ErrNothingPresented
	}
	skipped := q.current
	q.Advance()
	return skipped, nil
}

// Dismiss closes the prompt for the presented item. The queue is unchanged
// and the same item is presented again.
func (q *Queue) Dismiss() string {
	return q.current
}

// Present puts id in front of the user right away, even before its date. The
// previously presented id goes back to the head of the queue.
func (q *Queue) Present(id string) {
	if q.forced == nil {
		q.forced = make(map[string]struct{})
	}
	q.forced[id] = struct{}{}
	if id == q.current {
		return
	}
	q.waiting = slices.DeleteFunc(q.waiting, func(w string) bool { return w == id })
	if q.current != "" {
		q.waiting = append([]string{q.current}, q.waiting...)
	}
	q.current = id
}
