package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Madushan-tech/CashFlow/internal/ledger"
	"github.com/Madushan-tech/CashFlow/internal/models"
	"github.com/Madushan-tech/CashFlow/internal/realization"
	"github.com/Madushan-tech/CashFlow/internal/utils"
)

// AddCategory creates a user category
func (s *Service) AddCategory(ctx context.Context, c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateCategory(c); err != nil {
		return models.Category{}, err
	}
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	if _, exists := s.state.Category(c.ID); exists {
		return models.Category{}, &ledger.ValidationError{Field: "category", Reason: fmt.Sprintf("category %s already exists", c.ID)}
	}
	if c.SubCategories == nil {
		c.SubCategories = []string{}
	}
	next := s.state.Clone()
	next.Categories = append(next.Categories, c)
	s.commit(ctx, next)
	s.log.Infof("Category added: %s", c.Name)
	return c, nil
}

// UpdateCategory replaces a category's name, icon and sub categories
func (s *Service) UpdateCategory(ctx context.Context, c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateCategory(c); err != nil {
		return err
	}
	next := s.state.Clone()
	i := slices.IndexFunc(next.Categories, func(cat models.Category) bool { return cat.ID == c.ID })
	if i < 0 {
		return &ledger.ValidationError{Field: "category", Reason: "category not found"}
	}
	next.Categories[i] = c
	s.commit(ctx, next)
	s.log.Infof("Category updated: %s", c.Name)
	return nil
}

// DeleteCategory removes a category. Transactions keep the orphaned id and
// display it as unknown.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if models.RoleOfCategory(id) == models.CategoryOpeningBalance {
		return ledger.ErrReservedCategory
	}
	next := s.state.Clone()
	before := len(next.Categories)
	next.Categories = slices.DeleteFunc(next.Categories, func(c models.Category) bool { return c.ID == id })
	if len(next.Categories) == before {
		return &ledger.ValidationError{Field: "category", Reason: "category not found"}
	}
	next.EnsureReservedCategories()
	s.commit(ctx, next)
	s.log.Infof("Category deleted: %s", id)
	return nil
}

func validateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ledger.ValidationError{Field: "name", Reason: "category name is required"}
	}
	if c.Type != models.Income && c.Type != models.Expense {
		return &ledger.ValidationError{Field: "type", Reason: "category must be income or expense"}
	}
	return nil
}

// SetPIN stores a new security PIN. An empty pin removes the lock.
func (s *Service) SetPIN(ctx context.Context, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := ""
	if pin != "" {
		var err error
		if hash, err = utils.HashPIN(pin); err != nil {
			return err
		}
	}
	next := s.state.Clone()
	next.SecurityPIN = hash
	s.commit(ctx, next)
	s.log.Info("Security PIN updated")
	return nil
}

// VerifyPIN reports whether pin unlocks the ledger. Without a PIN set every
// attempt succeeds.
func (s *Service) VerifyPIN(pin string) bool {
	s.mu.Lock()
	hash := s.state.SecurityPIN
	s.mu.Unlock()
	if hash == "" {
		return true
	}
	return utils.CheckPIN(hash, pin)
}

// SetNotifications turns realization reminders on or off
func (s *Service) SetNotifications(ctx context.Context, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	next.NotificationsEnabled = enabled
	s.commit(ctx, next)
	s.log.Infof("Notifications enabled: %t", enabled)
}

// SetTheme stores the display theme
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != "dark" && theme != "light" {
		return &ledger.ValidationError{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", theme)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.Clone()
	next.Theme = theme
	s.commit(ctx, next)
	return nil
}

// Reset clears every record and setting
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.DefaultState()
	s.queue = realization.NewQueue()
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Errorf("Failed to clear stored state: %v", err)
	}
	s.log.Info("All data cleared")
}
