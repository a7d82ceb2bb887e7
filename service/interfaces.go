package service

import (
	"context"

	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its identity, nil if unknown
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetOrCreate retrieves an account, materializing a zero-balance row
	// on first use
	GetOrCreate(ctx context.Context, id string) (*models.Account, error)

	// AddBalance credits an account atomically
	AddBalance(ctx context.Context, id string, amount int64) error

	// DeductAvailable debits an account atomically, failing with
	// ErrInsufficientFunds when amount exceeds balance minus locked
	DeductAvailable(ctx context.Context, id string, amount int64) error

	// Lock reserves part of the available balance against a future
	// settlement, failing with ErrInsufficientFunds when over-committed
	Lock(ctx context.Context, id string, amount int64) error

	// ReleaseAndSettle atomically releases a previously locked amount and
	// applies the net settlement delta to the balance. Fails with
	// ErrInvariantViolation if the amount was never locked.
	ReleaseAndSettle(ctx context.Context, id string, lockedAmount, netDelta int64) error

	// GetAll returns every account
	GetAll(ctx context.Context) ([]*models.Account, error)
}

// GameRepository defines the interface for game record data access
type GameRepository interface {
	// NextID allocates the next monotonic game id
	NextID(ctx context.Context) (int64, error)

	// Create persists a new game record with an explicit id
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game by id, nil if unknown
	GetByID(ctx context.Context, id int64) (*models.Game, error)

	// Update persists outcome, status and reveal fields
	Update(ctx context.Context, game *models.Game) error

	// GetByPlayer returns games for one player, newest first
	GetByPlayer(ctx context.Context, player string, limit int) ([]*models.Game, error)
}

// CommitRepository defines the interface for fairness commit data access
type CommitRepository interface {
	// Create writes a commit entry, failing with ErrAlreadyCommitted on a
	// duplicate game id
	Create(ctx context.Context, commit *models.FairnessCommit) error

	// GetByGameID retrieves a commit entry, nil if unknown
	GetByGameID(ctx context.Context, gameID int64) (*models.FairnessCommit, error)

	// MarkRevealed stores the revealed seed, the draw inputs and the
	// outcome bit
	MarkRevealed(ctx context.Context, gameID int64, serverSeed, clientSeed string, nonce int64, outcomeBit int16) error
}

// LedgerEntryRepository defines the interface for the append-only balance
// change history
type LedgerEntryRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByAccount returns entries for an account, newest first
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error)
}

// AppConfigRepository defines the interface for the singleton admin/fee record
type AppConfigRepository interface {
	// Get retrieves the config row, nil before initialization
	Get(ctx context.Context) (*models.AppConfig, error)

	// Create writes the config row once, failing with
	// ErrAlreadyInitialized on a second call
	Create(ctx context.Context, admin string, feeBps int64) error

	// UpdateFee changes the fee basis points
	UpdateFee(ctx context.Context, feeBps int64) error

	// AddAccruedFees adds the house cut of one settlement
	AddAccruedFees(ctx context.Context, amount int64) error
}

// LedgerService defines the balance ledger operations
type LedgerService interface {
	// Initialize stores the admin identity and the initial fee schedule;
	// callable exactly once
	Initialize(ctx context.Context, admin string) error

	// SetFee updates the house fee; admin only
	SetFee(ctx context.Context, caller string, feeBps int64) error

	// Deposit credits an account, creating it on first use
	Deposit(ctx context.Context, account string, amount int64) (*models.Account, error)

	// Withdraw debits the available balance and triggers the external
	// token transfer out
	Withdraw(ctx context.Context, caller, account string, amount int64) (*models.Account, error)

	// GetBalance returns the balance for an account, zero for unknown ones
	GetBalance(ctx context.Context, account string) (int64, error)

	// CalculatePayout returns the full pot minus the house fee for a stake
	CalculatePayout(ctx context.Context, stake int64) (int64, error)

	// AccruedFees returns the operator's accumulated house fees
	AccruedFees(ctx context.Context) (int64, error)

	// History returns recent ledger entries for an account
	History(ctx context.Context, account string, limit int) ([]*models.LedgerEntry, error)
}

// GameService orchestrates one game instance from stake to settlement
type GameService interface {
	// Play locks the stake, records the seed commitment and persists a
	// committed game record
	Play(ctx context.Context, player string, stake int64, choice models.CoinSide, clientSeed string) (int64, error)

	// Resolve reveals the server seed, draws the outcome and settles the
	// stake; operator only
	Resolve(ctx context.Context, caller string, gameID int64, serverSeed []byte) (*models.GameResult, error)

	// VoidGame returns a committed game's stake untouched; operator only
	VoidGame(ctx context.Context, caller string, gameID int64) error

	// GetGameResult returns the stored record projection
	GetGameResult(ctx context.Context, gameID int64) (*models.GameResult, error)

	// VerifyGame checks a claimed server seed against the game's
	// commitment and recorded outcome
	VerifyGame(ctx context.Context, gameID int64, claimedServerSeed []byte) (bool, error)
}

// Authorizer is the identity/authorization collaborator. The core trusts
// the boolean and performs no further authentication.
type Authorizer interface {
	VerifyCaller(ctx context.Context, identity string) bool
}

// TokenTransferor is the token-transfer collaborator moving value between
// the host chain and the custodial pool. Both calls are assumed to either
// fully succeed or fail without partial movement.
type TokenTransferor interface {
	// TransferIn pulls tokens from the depositor, returning a transfer
	// reference
	TransferIn(ctx context.Context, from string, amount int64) (string, error)

	// TransferOut pushes tokens to the withdrawer, returning a transfer
	// reference
	TransferOut(ctx context.Context, to string, amount int64) (string, error)
}

// SeedVault supplies server seed commitments for new games and keeps the
// seeds themselves off the public record until the operator reveals them.
type SeedVault interface {
	// NewCommitment generates and retains a server seed for a game and
	// returns its commit hash
	NewCommitment(ctx context.Context, gameID int64) (string, error)

	// Reveal surrenders the retained seed for settlement
	Reveal(gameID int64) ([]byte, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	GameRepository() GameRepository
	CommitRepository() CommitRepository
	LedgerEntryRepository() LedgerEntryRepository
	AppConfigRepository() AppConfigRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
