package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-fee-api/internal/models"
)

// SettingsRepository persists the global fee settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row. sql.ErrNoRows signals the row has not been
// created yet; the service lazily creates it with defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*models.GlobalFeeSettings, error) {
	const query = `SELECT id, fee_due_day, late_fee_per_day, updated_at FROM global_fee_settings LIMIT 1`
	var settings models.GlobalFeeSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create inserts the singleton row.
func (r *SettingsRepository) Create(ctx context.Context, settings *models.GlobalFeeSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO global_fee_settings (id, fee_due_day, late_fee_per_day, updated_at)
VALUES (:id, :fee_due_day, :late_fee_per_day, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("create fee settings: %w", err)
	}
	return nil
}

// Update persists new values for the singleton row.
func (r *SettingsRepository) Update(ctx context.Context, settings *models.GlobalFeeSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	const query = `UPDATE global_fee_settings SET fee_due_day = :fee_due_day, late_fee_per_day = :late_fee_per_day, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("update fee settings: %w", err)
	}
	return nil
}
