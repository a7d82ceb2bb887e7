package service

import (
	"context"
	"fmt"

	"github.com/ebubechi-ihediwa/StellarCade/fairness"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// The commit-reveal engine. Commitments are written before the player's
// choice is final and reveals are checked against them, so the operator
// cannot pick a seed after seeing the choice. These helpers run inside
// the caller's unit of work so a game's draw and its settlement share one
// transaction.

// CommitSeed stores a server seed commitment for a game. Fails with
// ErrAlreadyCommitted when the game id already carries a commitment.
func CommitSeed(ctx context.Context, uow UnitOfWork, gameID int64, commitHash string) error {
	if commitHash == "" {
		return fmt.Errorf("commit hash must not be empty")
	}

	commit := &models.FairnessCommit{
		GameID:     gameID,
		CommitHash: commitHash,
	}
	if err := uow.CommitRepository().Create(ctx, commit); err != nil {
		return fmt.Errorf("failed to store commitment: %w", err)
	}

	return nil
}

// RevealAndDraw validates a revealed server seed against the stored
// commitment and derives the outcome bit from both seeds and the nonce.
// Fails with ErrNotCommitted before a commit, ErrCommitMismatch when the
// seed does not hash to the commitment.
func RevealAndDraw(ctx context.Context, uow UnitOfWork, gameID int64, serverSeed []byte, clientSeed string, nonce int64) (byte, error) {
	entry, err := uow.CommitRepository().GetByGameID(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to load commitment: %w", err)
	}
	if entry == nil {
		return 0, fmt.Errorf("game %d: %w", gameID, ErrNotCommitted)
	}
	if entry.State == models.CommitStateRevealed {
		return 0, fmt.Errorf("game %d reveal already recorded: %w", gameID, ErrAlreadySettled)
	}

	commit := fairness.CommitHash(serverSeed, gameID)
	if fairness.EncodeHex(commit[:]) != entry.CommitHash {
		return 0, fmt.Errorf("game %d: %w", gameID, ErrCommitMismatch)
	}

	digest := fairness.DrawDigest(serverSeed, []byte(clientSeed), nonce)
	bit := fairness.OutcomeBit(digest)

	err = uow.CommitRepository().MarkRevealed(ctx, gameID, fairness.EncodeHex(serverSeed), clientSeed, nonce, int16(bit))
	if err != nil {
		return 0, fmt.Errorf("failed to record reveal: %w", err)
	}

	return bit, nil
}

// VerifyReveal reports whether a claimed server seed reproduces both the
// commitment and the recorded outcome of a revealed game. Pure read; an
// unrevealed or mismatching claim yields false, not an error.
func VerifyReveal(ctx context.Context, uow UnitOfWork, gameID int64, claimedServerSeed []byte) (bool, error) {
	entry, err := uow.CommitRepository().GetByGameID(ctx, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to load commitment: %w", err)
	}
	if entry == nil {
		return false, fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if entry.State != models.CommitStateRevealed || entry.ClientSeed == nil || entry.Nonce == nil || entry.OutcomeBit == nil {
		return false, nil
	}

	commit := fairness.CommitHash(claimedServerSeed, gameID)
	if fairness.EncodeHex(commit[:]) != entry.CommitHash {
		return false, nil
	}

	digest := fairness.DrawDigest(claimedServerSeed, []byte(*entry.ClientSeed), *entry.Nonce)
	return int16(fairness.OutcomeBit(digest)) == *entry.OutcomeBit, nil
}
