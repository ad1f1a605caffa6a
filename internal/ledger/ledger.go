// Package ledger holds the transaction log and the pure rules folded over it:
// balances, loan decomposition, settlement and realization of scheduled
// entries. Nothing here logs or persists; every mutation returns a new Ledger.
package ledger

import (
	"slices"
	"sort"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/models"
)

// Ledger is an immutable collection of transactions indexed by id.
type Ledger struct {
	txs   []models.Transaction
	index map[string]int
}

// New builds a ledger from txs. The slice is copied.
func New(txs []models.Transaction) Ledger {
	l := Ledger{txs: slices.Clone(txs)}
	l.reindex()
	return l
}

func (l *Ledger) reindex() {
	l.index = make(map[string]int, len(l.txs))
	for i, tx := range l.txs {
		l.index[tx.ID] = i
	}
}

// Len returns the number of transactions.
func (l Ledger) Len() int {
	return len(l.txs)
}

// Transactions returns a copy of the transactions in insertion order.
func (l Ledger) Transactions() []models.Transaction {
	return slices.Clone(l.txs)
}

// Get returns the transaction with the given id.
func (l Ledger) Get(id string) (models.Transaction, bool) {
	i, ok := l.index[id]
	if !ok {
		return models.Transaction{}, false
	}
	return l.txs[i], true
}

// Children returns every transaction whose relatedTransactionId is parentID.
func (l Ledger) Children(parentID string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range l.txs {
		if tx.RelatedTransactionID == parentID && tx.ID != parentID {
			out = append(out, tx)
		}
	}
	return out
}

// Append returns a ledger with txs added at the end.
func (l Ledger) Append(txs ...models.Transaction) Ledger {
	n := Ledger{txs: make([]models.Transaction, 0, len(l.txs)+len(txs))}
	n.txs = append(n.txs, l.txs...)
	n.txs = append(n.txs, txs...)
	n.reindex()
	return n
}

// Replace returns a ledger where the record with tx.ID is swapped for tx.
func (l Ledger) Replace(tx models.Transaction) (Ledger, error) {
	i, ok := l.index[tx.ID]
	if !ok {
		return l, ErrNotFound
	}
	n := Ledger{txs: slices.Clone(l.txs), index: l.index}
	n.txs[i] = tx
	return n, nil
}

// Remove returns a ledger without the given ids. Unknown ids are ignored.
func (l Ledger) Remove(ids ...string) Ledger {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	n := Ledger{txs: make([]models.Transaction, 0, len(l.txs))}
	for _, tx := range l.txs {
		if _, ok := drop[tx.ID]; !ok {
			n.txs = append(n.txs, tx)
		}
	}
	n.reindex()
	return n
}

// Due returns pending transactions dated at or before now, oldest first.
func (l Ledger) Due(now time.Time) []models.Transaction {
	var due []models.Transaction
	for _, tx := range l.txs {
		if tx.IsPending() && !tx.Date.After(now) {
			due = append(due, tx)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Date.Before(due[j].Date)
	})
	return due
}

// Pending returns every pending transaction, oldest first.
func (l Ledger) Pending() []models.Transaction {
	var out []models.Transaction
	for _, tx := range l.txs {
		if tx.IsPending() {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
