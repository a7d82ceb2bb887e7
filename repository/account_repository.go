package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/models"
	"github.com/ebubechi-ihediwa/StellarCade/service"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByID retrieves an account by its identity
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, balance, locked, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&account.Locked,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}

	return &account, nil
}

// GetOrCreate retrieves an account, materializing a zero-balance row on first use
func (r *AccountRepository) GetOrCreate(ctx context.Context, id string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id)
		VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET updated_at = accounts.updated_at
		RETURNING id, balance, locked, created_at, updated_at
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&account.Locked,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create account %s: %w", id, err)
	}

	return &account, nil
}

// AddBalance credits an account atomically
func (r *AccountRepository) AddBalance(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", service.ErrInvalidAmount)
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to add balance for account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, service.ErrNotFound)
	}

	return nil
}

// DeductAvailable debits an account atomically, guarded against the
// available balance so locked stakes are never touched.
func (r *AccountRepository) DeductAvailable(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", service.ErrInvalidAmount)
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2
		  AND balance - locked >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("account %s: %w", id, service.ErrInsufficientFunds)
		}
		return fmt.Errorf("%w: have %d available, need %d", service.ErrInsufficientFunds, account.Available(), amount)
	}

	return nil
}

// Lock reserves part of the available balance for an in-flight game.
// The guard runs in the UPDATE itself so concurrent locks against the
// same account cannot overdraw.
func (r *AccountRepository) Lock(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: lock amount must be positive", service.ErrInvalidAmount)
	}

	query := `
		UPDATE accounts
		SET locked = locked + $1, updated_at = NOW()
		WHERE id = $2
		  AND balance - locked >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to lock funds for account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		account, err := r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("account %s: %w", id, service.ErrInsufficientFunds)
		}
		return fmt.Errorf("%w: have %d available, need %d", service.ErrInsufficientFunds, account.Available(), amount)
	}

	return nil
}

// ReleaseAndSettle releases a locked amount and applies the settlement
// delta in a single statement, so no other operation can observe the
// stake as neither locked nor settled.
func (r *AccountRepository) ReleaseAndSettle(ctx context.Context, id string, lockedAmount, netDelta int64) error {
	if lockedAmount <= 0 {
		return fmt.Errorf("%w: released amount must be positive, got %d", service.ErrInvariantViolation, lockedAmount)
	}
	if netDelta < -lockedAmount {
		// A loss can never exceed the stake that was locked for it.
		return fmt.Errorf("%w: net delta %d exceeds released lock %d", service.ErrInvariantViolation, netDelta, lockedAmount)
	}

	query := `
		UPDATE accounts
		SET locked = locked - $1, balance = balance + $2, updated_at = NOW()
		WHERE id = $3
		  AND locked >= $1
	`

	result, err := r.q.Exec(ctx, query, lockedAmount, netDelta, id)
	if err != nil {
		return fmt.Errorf("failed to settle account %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		// Either the account vanished or the amount was never locked;
		// both mean the ledger state is inconsistent with the caller.
		return fmt.Errorf("%w: account %s has no lock covering %d", service.ErrInvariantViolation, id, lockedAmount)
	}

	return nil
}

// GetAll returns every account
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, balance, locked, created_at, updated_at
		FROM accounts
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.Balance,
			&account.Locked,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}
