package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// GameRepository implements the service.GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository bound to a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

// NextID allocates the next monotonic game id. The id is taken before the
// row is written because the fairness commitment binds to it.
func (r *GameRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT nextval('games_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate game id: %w", err)
	}
	return id, nil
}

// Create persists a new game record with an explicit id
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, player, stake, choice, client_seed, nonce, commit_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		game.ID,
		game.Player,
		game.Stake,
		game.Choice,
		game.ClientSeed,
		game.Nonce,
		game.CommitHash,
		game.Status,
	).Scan(&game.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game %d: %w", game.ID, err)
	}

	return nil
}

// GetByID retrieves a game by id
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `
		SELECT id, player, stake, choice, client_seed, nonce, commit_hash,
		       server_seed_revealed, outcome, status, payout_delta, created_at, settled_at
		FROM games
		WHERE id = $1
	`

	var game models.Game
	err := r.q.QueryRow(ctx, query, id).Scan(
		&game.ID,
		&game.Player,
		&game.Stake,
		&game.Choice,
		&game.ClientSeed,
		&game.Nonce,
		&game.CommitHash,
		&game.ServerSeedRevealed,
		&game.Outcome,
		&game.Status,
		&game.PayoutDelta,
		&game.CreatedAt,
		&game.SettledAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	return &game, nil
}

// Update persists outcome, status and reveal fields
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET server_seed_revealed = $1, outcome = $2, status = $3, payout_delta = $4, settled_at = $5
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		game.ServerSeedRevealed,
		game.Outcome,
		game.Status,
		game.PayoutDelta,
		game.SettledAt,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %d: %w", game.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %d not found", game.ID)
	}

	return nil
}

// GetByPlayer returns games for one player, newest first
func (r *GameRepository) GetByPlayer(ctx context.Context, player string, limit int) ([]*models.Game, error) {
	query := `
		SELECT id, player, stake, choice, client_seed, nonce, commit_hash,
		       server_seed_revealed, outcome, status, payout_delta, created_at, settled_at
		FROM games
		WHERE player = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, player, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for player %s: %w", player, err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID,
			&game.Player,
			&game.Stake,
			&game.Choice,
			&game.ClientSeed,
			&game.Nonce,
			&game.CommitHash,
			&game.ServerSeedRevealed,
			&game.Outcome,
			&game.Status,
			&game.PayoutDelta,
			&game.CreatedAt,
			&game.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}
