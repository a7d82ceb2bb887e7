package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/models"
	"github.com/ebubechi-ihediwa/StellarCade/service"
)

// AppConfigRepository implements the service.AppConfigRepository interface
type AppConfigRepository struct {
	q queryable
}

// NewAppConfigRepository creates a new app config repository
func NewAppConfigRepository(db *database.DB) *AppConfigRepository {
	return &AppConfigRepository{q: db.Pool}
}

// newAppConfigRepositoryWithTx creates a new app config repository bound to a transaction
func newAppConfigRepositoryWithTx(tx queryable) *AppConfigRepository {
	return &AppConfigRepository{q: tx}
}

// Get retrieves the singleton config row, nil before initialization
func (r *AppConfigRepository) Get(ctx context.Context) (*models.AppConfig, error) {
	query := `
		SELECT admin, fee_bps, fees_accrued, created_at, updated_at
		FROM app_config
		WHERE singleton
	`

	var cfg models.AppConfig
	err := r.q.QueryRow(ctx, query).Scan(
		&cfg.Admin,
		&cfg.FeeBps,
		&cfg.FeesAccrued,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app config: %w", err)
	}

	return &cfg, nil
}

// Create writes the config row once. The singleton primary key rejects a
// second initialization at the storage level.
func (r *AppConfigRepository) Create(ctx context.Context, admin string, feeBps int64) error {
	query := `
		INSERT INTO app_config (singleton, admin, fee_bps)
		VALUES (TRUE, $1, $2)
	`

	_, err := r.q.Exec(ctx, query, admin, feeBps)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.ErrAlreadyInitialized
		}
		return fmt.Errorf("failed to create app config: %w", err)
	}

	return nil
}

// UpdateFee changes the fee basis points
func (r *AppConfigRepository) UpdateFee(ctx context.Context, feeBps int64) error {
	query := `
		UPDATE app_config
		SET fee_bps = $1, updated_at = NOW()
		WHERE singleton
	`

	result, err := r.q.Exec(ctx, query, feeBps)
	if err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("app config not initialized")
	}

	return nil
}

// AddAccruedFees adds the house cut of one settlement
func (r *AppConfigRepository) AddAccruedFees(ctx context.Context, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: accrued fee must not be negative, got %d", service.ErrInvariantViolation, amount)
	}
	if amount == 0 {
		return nil
	}

	query := `
		UPDATE app_config
		SET fees_accrued = fees_accrued + $1, updated_at = NOW()
		WHERE singleton
	`

	result, err := r.q.Exec(ctx, query, amount)
	if err != nil {
		return fmt.Errorf("failed to accrue fees: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("app config not initialized")
	}

	return nil
}
