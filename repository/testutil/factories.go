package testutil

import (
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// CreateTestGame creates a committed game with default values
func CreateTestGame(id int64, player string) *models.Game {
	return &models.Game{
		ID:         id,
		Player:     player,
		Stake:      100,
		Choice:     models.CoinSideA,
		ClientSeed: "client-seed",
		Nonce:      id,
		CommitHash: "0000000000000000000000000000000000000000000000000000000000000000",
		Status:     models.GameStatusCommitted,
	}
}

// CreateTestCommit creates a fairness commit in the committed state
func CreateTestCommit(gameID int64, commitHash string) *models.FairnessCommit {
	return &models.FairnessCommit{
		GameID:     gameID,
		CommitHash: commitHash,
	}
}

// CreateTestLedgerEntry creates a ledger entry with consistent balances
func CreateTestLedgerEntry(accountID string, amount, balanceBefore int64, entryType models.EntryType) *models.LedgerEntry {
	return &models.LedgerEntry{
		AccountID:     accountID,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + amount,
		EntryType:     entryType,
	}
}
