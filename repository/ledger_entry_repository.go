package repository

import (
	"context"
	"fmt"

	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// LedgerEntryRepository implements the service.LedgerEntryRepository interface
type LedgerEntryRepository struct {
	q queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository bound to a transaction
func newLedgerEntryRepositoryWithTx(tx queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Record creates a new ledger entry
func (r *LedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, amount, balance_before, balance_after, entry_type, game_id, transfer_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.EntryType,
		entry.GameID,
		entry.TransferRef,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for account %s: %w", entry.AccountID, err)
	}

	return nil
}

// GetByAccount returns entries for an account, newest first
func (r *LedgerEntryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, account_id, amount, balance_before, balance_after, entry_type, game_id, transfer_ref, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.EntryType,
			&entry.GameID,
			&entry.TransferRef,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
