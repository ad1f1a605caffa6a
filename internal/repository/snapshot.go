package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Madushan-tech/CashFlow/internal/models"
)

// ErrCorruptState is returned when a stored document cannot be decoded.
var ErrCorruptState = errors.New("stored state is corrupt")

// EncodeState serializes the state document. Dates are written as RFC 3339
// strings.
func EncodeState(state *models.State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState revives a stored document. Fields missing from older documents
// fall back to the defaults of a fresh ledger, records without a status are
// treated as verified and records without a role are classified once here.
func DecodeState(data []byte) (*models.State, error) {
	state := &models.State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	defaults := models.DefaultState()
	if state.Transactions == nil {
		state.Transactions = defaults.Transactions
	}
	if state.Accounts == nil {
		state.Accounts = defaults.Accounts
	}
	if state.Categories == nil {
		state.Categories = defaults.Categories
	}
	if state.Theme == "" {
		state.Theme = defaults.Theme
	}
	for i := range state.Categories {
		if state.Categories[i].SubCategories == nil {
			state.Categories[i].SubCategories = []string{}
		}
	}
	for i := range state.Transactions {
		tx := &state.Transactions[i]
		if tx.Status == "" {
			tx.Status = models.StatusVerified
		}
		if tx.Role == "" {
			tx.Role = classify(*tx)
		}
	}
	state.EnsureReservedCategories()
	return state, nil
}

// classify derives the role of a record written before roles were stored.
// Such documents encoded the role in id prefixes and loan flags.
func classify(tx models.Transaction) models.Role {
	switch {
	case tx.IsLoanParent:
		return models.RoleLoanFacility
	case strings.HasPrefix(tx.ID, "fee-"):
		return models.RoleTransferFee
	case strings.HasPrefix(tx.ID, "income-"):
		return models.RoleLoanIncome
	case strings.HasPrefix(tx.ID, "dp-"):
		return models.RoleLoanDownPayment
	case strings.HasPrefix(tx.ID, "inst-"):
		return models.RoleLoanInstallment
	case tx.RelatedTransactionID != "" && tx.SubCategory == models.SubCategoryInstallment:
		return models.RoleLoanInstallment
	case tx.RelatedTransactionID != "" && tx.IsSettlement:
		return models.RoleSettlement
	default:
		return models.RolePrimary
	}
}
