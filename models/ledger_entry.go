package models

import (
	"time"
)

// EntryType represents the kind of balance change recorded in the ledger
type EntryType string

const (
	EntryTypeDeposit    EntryType = "deposit"
	EntryTypeWithdrawal EntryType = "withdrawal"
	EntryTypeGameWin    EntryType = "game_win"
	EntryTypeGameLoss   EntryType = "game_loss"
	EntryTypeGameVoid   EntryType = "game_void"
)

// LedgerEntry is an append-only record of a single balance change.
// BalanceBefore/BalanceAfter snapshot the account at the time of the
// change so the full history replays to the current balance.
type LedgerEntry struct {
	ID            int64     `db:"id"`
	AccountID     string    `db:"account_id"`
	Amount        int64     `db:"amount"`
	BalanceBefore int64     `db:"balance_before"`
	BalanceAfter  int64     `db:"balance_after"`
	EntryType     EntryType `db:"entry_type"`
	GameID        *int64    `db:"game_id"`
	TransferRef   *string   `db:"transfer_ref"`
	CreatedAt     time.Time `db:"created_at"`
}
