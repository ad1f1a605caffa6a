package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownCategoryName is shown for transactions whose category was deleted.
const UnknownCategoryName = "Unknown"

// State is the persisted document: the whole ledger plus user settings.
type State struct {
	Transactions []Transaction `json:"transactions"`
	Accounts     []Account     `json:"accounts"`
	Categories   []Category    `json:"categories"`

	Theme                string    `json:"theme"`
	HasOnboarded         bool      `json:"hasOnboarded"`
	SecurityPIN          string    `json:"securityPin,omitempty"` // bcrypt hash
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	LastNotificationDate time.Time `json:"lastNotificationDate,omitzero"`
}

// DefaultAccounts returns the zero-balance accounts of a fresh ledger.
func DefaultAccounts() []Account {
	return []Account{
		{ID: "1", Name: "Cash in Hand", Type: AccountCash, Balance: decimal.Zero},
		{ID: "2", Name: "Savings Account", Type: AccountSavings, Balance: decimal.Zero},
		{ID: "3", Name: "Fixed Deposit", Type: AccountFixedDeposit, Balance: decimal.Zero},
	}
}

// DefaultState returns the state of a ledger that has never been used.
func DefaultState() *State {
	return &State{
		Transactions: []Transaction{},
		Accounts:     DefaultAccounts(),
		Categories:   DefaultCategories(),
		Theme:        "dark",
	}
}

// Clone returns a copy of s that shares no slices with it.
func (s *State) Clone() *State {
	c := *s
	c.Transactions = slices.Clone(s.Transactions)
	c.Accounts = slices.Clone(s.Accounts)
	c.Categories = make([]Category, len(s.Categories))
	for i, cat := range s.Categories {
		cat.SubCategories = slices.Clone(cat.SubCategories)
		c.Categories[i] = cat
	}
	return &c
}

// Category returns the category with the given id.
func (s *State) Category(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryName resolves a category id for display. Orphaned ids are
// reported as UnknownCategoryName.
func (s *State) CategoryName(id string) string {
	if c, ok := s.Category(id); ok {
		return c.Name
	}
	return UnknownCategoryName
}

// EnsureReservedCategories injects the opening balance category when it is
// missing, and the loan category once any loan exists. It reports whether
// the state changed.
func (s *State) EnsureReservedCategories() bool {
	changed := false
	if _, ok := s.Category(OpeningBalanceCategoryID); !ok {
		s.Categories = append([]Category{OpeningBalanceCategory()}, s.Categories...)
		changed = true
	}
	if _, ok := s.Category(LoanCategoryID); !ok && s.hasLoans() {
		s.Categories = append(s.Categories, LoanCategory())
		changed = true
	}
	return changed
}

func (s *State) hasLoans() bool {
	return slices.ContainsFunc(s.Transactions, func(t Transaction) bool {
		return t.IsLoanParent
	})
}
