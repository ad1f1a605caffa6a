package utils

import "github.com/google/uuid"

// NewID generates an identifier for a ledger record
func NewID() string {
	return uuid.New().String()
}
