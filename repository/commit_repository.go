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

// uniqueViolation is the Postgres error code for duplicate keys
const uniqueViolation = "23505"

// CommitRepository implements the service.CommitRepository interface
type CommitRepository struct {
	q queryable
}

// NewCommitRepository creates a new fairness commit repository
func NewCommitRepository(db *database.DB) *CommitRepository {
	return &CommitRepository{q: db.Pool}
}

// newCommitRepositoryWithTx creates a new commit repository bound to a transaction
func newCommitRepositoryWithTx(tx queryable) *CommitRepository {
	return &CommitRepository{q: tx}
}

// Create writes a commit entry. The primary key on game_id makes a second
// commit for the same game impossible at the storage level.
func (r *CommitRepository) Create(ctx context.Context, commit *models.FairnessCommit) error {
	query := `
		INSERT INTO fairness_commits (game_id, commit_hash, state)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		commit.GameID,
		commit.CommitHash,
		models.CommitStateCommitted,
	).Scan(&commit.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("game %d: %w", commit.GameID, service.ErrAlreadyCommitted)
		}
		return fmt.Errorf("failed to create commit for game %d: %w", commit.GameID, err)
	}

	commit.State = models.CommitStateCommitted
	return nil
}

// GetByGameID retrieves a commit entry
func (r *CommitRepository) GetByGameID(ctx context.Context, gameID int64) (*models.FairnessCommit, error) {
	query := `
		SELECT game_id, commit_hash, server_seed, client_seed, nonce, outcome_bit, state, created_at, revealed_at
		FROM fairness_commits
		WHERE game_id = $1
	`

	var commit models.FairnessCommit
	err := r.q.QueryRow(ctx, query, gameID).Scan(
		&commit.GameID,
		&commit.CommitHash,
		&commit.ServerSeed,
		&commit.ClientSeed,
		&commit.Nonce,
		&commit.OutcomeBit,
		&commit.State,
		&commit.CreatedAt,
		&commit.RevealedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commit for game %d: %w", gameID, err)
	}

	return &commit, nil
}

// MarkRevealed stores the revealed seed, the draw inputs and the outcome
// bit. The state guard keeps a commit from being revealed twice.
func (r *CommitRepository) MarkRevealed(ctx context.Context, gameID int64, serverSeed, clientSeed string, nonce int64, outcomeBit int16) error {
	query := `
		UPDATE fairness_commits
		SET server_seed = $1, client_seed = $2, nonce = $3, outcome_bit = $4,
		    state = $5, revealed_at = NOW()
		WHERE game_id = $6
		  AND state = $7
	`

	result, err := r.q.Exec(ctx, query,
		serverSeed,
		clientSeed,
		nonce,
		outcomeBit,
		models.CommitStateRevealed,
		gameID,
		models.CommitStateCommitted,
	)
	if err != nil {
		return fmt.Errorf("failed to mark commit revealed for game %d: %w", gameID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %d: %w", gameID, service.ErrNotCommitted)
	}

	return nil
}
