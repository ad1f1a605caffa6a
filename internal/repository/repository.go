package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Madushan-tech/CashFlow/internal/models"
)

// Repository persists the state document in PostgreSQL
type Repository struct {
	db  *sql.DB
	key string
}

// NewRepository initializes a new repository storing the document under key
func NewRepository(db *sql.DB, key string) *Repository {
	return &Repository{db: db, key: key}
}

// Migrate creates the state table when it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS cashflow;
		CREATE TABLE IF NOT EXISTS cashflow.app_state (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate state table: %w", err)
	}
	return nil
}

// Load retrieves the stored state. A missing row yields a fresh ledger.
func (r *Repository) Load(ctx context.Context) (*models.State, error) {
	var payload []byte
	query := `
		SELECT payload
		FROM cashflow.app_state
		WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, r.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return DecodeState(payload)
}

// Save writes the state, replacing any previous document under the same key
func (r *Repository) Save(ctx context.Context, state *models.State) error {
	payload, err := EncodeState(state)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO cashflow.app_state (key, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, r.key, payload); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Clear removes the stored document
func (r *Repository) Clear(ctx context.Context) error {
	query := `DELETE FROM cashflow.app_state WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, r.key); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
