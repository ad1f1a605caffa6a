package repository

import (
	"context"
	"sync"

	"github.com/Madushan-tech/CashFlow/internal/models"
)

// MemoryRepository keeps the encoded state document in memory.
type MemoryRepository struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load decodes the last saved document, or returns a fresh ledger.
func (m *MemoryRepository) Load(_ context.Context) (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.data == nil {
		return models.DefaultState(), nil
	}
	return DecodeState(m.data)
}

// Save encodes and stores state.
func (m *MemoryRepository) Save(_ context.Context, state *models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// Clear drops the stored document.
func (m *MemoryRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data = nil
	return nil
}

// Put stores raw document bytes as if they had been saved earlier.
func (m *MemoryRepository) Put(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// Saves returns how many times Save succeeded.
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes every later call return err. A nil err restores normal
// operation.
func (m *MemoryRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
