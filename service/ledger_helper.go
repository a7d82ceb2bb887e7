package service

import (
	"context"
	"fmt"

	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// HouseAccountID is the reserved prize pool account. Lost stakes flow
// into it and winning payouts are funded from it, so every unit in the
// system stays attributable to some account or to the accrued fees.
const HouseAccountID = "house"

// RecordLedgerEntry appends a balance change to the ledger history.
// This is the single entry point for all recorded balance changes.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if entry.BalanceAfter != entry.BalanceBefore+entry.Amount {
		return fmt.Errorf("%w: ledger entry does not balance for account %s", ErrInvariantViolation, entry.AccountID)
	}

	if err := uow.LedgerEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return nil
}

// lockStake reserves a stake against the player's available balance.
func lockStake(ctx context.Context, uow UnitOfWork, account string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: stake must be positive, got %d", ErrInvalidAmount, amount)
	}

	if err := uow.AccountRepository().Lock(ctx, account, amount); err != nil {
		return fmt.Errorf("failed to lock stake: %w", err)
	}

	return nil
}

// settleStake releases a locked stake, applies the settlement delta and
// records the ledger entry, all inside the caller's transaction.
func settleStake(ctx context.Context, uow UnitOfWork, account string, lockedAmount, netDelta int64, entryType models.EntryType, gameID int64) error {
	acct, err := uow.AccountRepository().GetByID(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if acct == nil {
		return fmt.Errorf("%w: settling unknown account %s", ErrInvariantViolation, account)
	}

	if err := uow.AccountRepository().ReleaseAndSettle(ctx, account, lockedAmount, netDelta); err != nil {
		return fmt.Errorf("failed to release and settle: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     account,
		Amount:        netDelta,
		BalanceBefore: acct.Balance,
		BalanceAfter:  acct.Balance + netDelta,
		EntryType:     entryType,
		GameID:        &gameID,
	}
	return RecordLedgerEntry(ctx, uow, entry)
}

// payoutForStake computes the full pot minus the house fee, floor-divided.
// The pot is the stake doubled, representing both sides of the binary bet.
func payoutForStake(stake, feeBps int64) int64 {
	return stake * 2 * (models.MaxFeeBasisPoints - feeBps) / models.MaxFeeBasisPoints
}
