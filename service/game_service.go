package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ebubechi-ihediwa/StellarCade/config"
	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/fairness"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	authorizer Authorizer
	seedVault  SeedVault
	cfg        *config.Config
}

// NewGameService creates a new game coordinator service
func NewGameService(uowFactory UnitOfWorkFactory, authorizer Authorizer, seedVault SeedVault, cfg *config.Config) GameService {
	return &gameService{
		uowFactory: uowFactory,
		authorizer: authorizer,
		seedVault:  seedVault,
		cfg:        cfg,
	}
}

// isOperator checks whether the caller may resolve or void games
func (s *gameService) isOperator(ctx context.Context, caller string) bool {
	return slices.Contains(s.cfg.OperatorIdentities, caller) && s.authorizer.VerifyCaller(ctx, caller)
}

// Play locks the stake, records the seed commitment and persists a
// committed game record. The outcome is not resolved here: the server
// seed commitment must be on record strictly before the operator can
// reveal, which is what makes the draw provably fair.
func (s *gameService) Play(ctx context.Context, player string, stake int64, choice models.CoinSide, clientSeed string) (int64, error) {
	// Validate inputs
	if stake <= 0 {
		return 0, fmt.Errorf("%w: stake must be positive, got %d", ErrInvalidAmount, stake)
	}
	if !models.ValidCoinSide(choice) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if player == "" {
		return 0, fmt.Errorf("player identity must not be empty")
	}
	if clientSeed == "" {
		return 0, fmt.Errorf("client seed must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// The commitment binds to the game id, so allocate it first.
	gameID, err := uow.GameRepository().NextID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate game id: %w", err)
	}

	// Reserve the stake before anything else. On insufficient funds the
	// transaction rolls back and no record of the attempt survives.
	if err := lockStake(ctx, uow, player, stake); err != nil {
		return 0, err
	}

	commitHash, err := s.seedVault.NewCommitment(ctx, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to obtain seed commitment: %w", err)
	}

	if err := CommitSeed(ctx, uow, gameID, commitHash); err != nil {
		return 0, err
	}

	game := &models.Game{
		ID:         gameID,
		Player:     player,
		Stake:      stake,
		Choice:     choice,
		ClientSeed: clientSeed,
		Nonce:      gameID,
		CommitHash: commitHash,
		Status:     models.GameStatusCommitted,
	}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return 0, fmt.Errorf("failed to create game record: %w", err)
	}

	uow.EventBus().Publish(events.GameCommittedEvent{
		GameID:     gameID,
		Player:     player,
		Stake:      stake,
		Choice:     choice,
		CommitHash: commitHash,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return gameID, nil
}

// Resolve reveals the server seed, draws the outcome and settles the
// stake in one transaction
func (s *gameService) Resolve(ctx context.Context, caller string, gameID int64, serverSeed []byte) (*models.GameResult, error) {
	if !s.isOperator(ctx, caller) {
		return nil, fmt.Errorf("resolve requires an operator: %w", ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if game.IsTerminal() {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrAlreadySettled)
	}

	bit, err := RevealAndDraw(ctx, uow, gameID, serverSeed, game.ClientSeed, game.Nonce)
	if err != nil {
		return nil, err
	}
	outcome := models.SideFromBit(bit)

	cfg, err := uow.AppConfigRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}

	var payoutDelta int64
	if outcome == game.Choice {
		payout := payoutForStake(game.Stake, cfg.FeeBps)
		payoutDelta = payout - game.Stake
		fee := 2*game.Stake - payout

		// The house funds its side of the pot and the fee is carved out
		// of the gross winnings.
		if err := s.settleHouse(ctx, uow, gameID, -game.Stake); err != nil {
			return nil, err
		}
		if err := uow.AppConfigRepository().AddAccruedFees(ctx, fee); err != nil {
			return nil, fmt.Errorf("failed to accrue fees: %w", err)
		}
		if err := settleStake(ctx, uow, game.Player, game.Stake, payoutDelta, models.EntryTypeGameWin, gameID); err != nil {
			return nil, err
		}
	} else {
		payoutDelta = -game.Stake

		// The lost stake flows into the house pool.
		if err := s.settleHouse(ctx, uow, gameID, game.Stake); err != nil {
			return nil, err
		}
		if err := settleStake(ctx, uow, game.Player, game.Stake, payoutDelta, models.EntryTypeGameLoss, gameID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	revealed := fairness.EncodeHex(serverSeed)
	game.ServerSeedRevealed = &revealed
	game.Outcome = &outcome
	game.Status = models.GameStatusSettled
	game.PayoutDelta = &payoutDelta
	game.SettledAt = &now
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	uow.EventBus().Publish(events.GameSettledEvent{
		GameID:      gameID,
		Player:      game.Player,
		Choice:      game.Choice,
		Outcome:     outcome,
		PayoutDelta: payoutDelta,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID":      gameID,
		"player":      game.Player,
		"outcome":     outcome,
		"payoutDelta": payoutDelta,
	}).Info("Game settled")

	return projectGame(game), nil
}

// settleHouse moves the house side of a settlement through the prize
// pool account. A positive delta collects a lost stake; a negative delta
// funds a winning payout.
func (s *gameService) settleHouse(ctx context.Context, uow UnitOfWork, gameID int64, delta int64) error {
	house, err := uow.AccountRepository().GetOrCreate(ctx, HouseAccountID)
	if err != nil {
		return fmt.Errorf("failed to get house account: %w", err)
	}

	if delta >= 0 {
		err = uow.AccountRepository().AddBalance(ctx, HouseAccountID, delta)
	} else {
		err = uow.AccountRepository().DeductAvailable(ctx, HouseAccountID, -delta)
	}
	if err != nil {
		return fmt.Errorf("failed to settle house account: %w", err)
	}

	entryType := models.EntryTypeGameLoss
	if delta >= 0 {
		entryType = models.EntryTypeGameWin
	}
	entry := &models.LedgerEntry{
		AccountID:     HouseAccountID,
		Amount:        delta,
		BalanceBefore: house.Balance,
		BalanceAfter:  house.Balance + delta,
		EntryType:     entryType,
		GameID:        &gameID,
	}
	return RecordLedgerEntry(ctx, uow, entry)
}

// VoidGame returns a committed game's stake untouched, guaranteeing no
// funds stay stranded under a lock the operator can no longer settle
func (s *gameService) VoidGame(ctx context.Context, caller string, gameID int64) error {
	if !s.isOperator(ctx, caller) {
		return fmt.Errorf("void requires an operator: %w", ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if game.IsTerminal() {
		return fmt.Errorf("game %d: %w", gameID, ErrAlreadySettled)
	}

	if err := settleStake(ctx, uow, game.Player, game.Stake, 0, models.EntryTypeGameVoid, gameID); err != nil {
		return err
	}

	now := time.Now()
	zero := int64(0)
	game.Status = models.GameStatusVoided
	game.PayoutDelta = &zero
	game.SettledAt = &now
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	uow.EventBus().Publish(events.GameVoidedEvent{
		GameID: gameID,
		Player: game.Player,
		Stake:  game.Stake,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGameResult returns the stored record projection
func (s *gameService) GetGameResult(ctx context.Context, gameID int64) (*models.GameResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}

	return projectGame(game), nil
}

// VerifyGame checks a claimed server seed against the game's commitment
// and recorded outcome
func (s *gameService) VerifyGame(ctx context.Context, gameID int64, claimedServerSeed []byte) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return VerifyReveal(ctx, uow, gameID, claimedServerSeed)
}

func projectGame(game *models.Game) *models.GameResult {
	return &models.GameResult{
		GameID:             game.ID,
		Player:             game.Player,
		Stake:              game.Stake,
		Choice:             game.Choice,
		ClientSeed:         game.ClientSeed,
		Nonce:              game.Nonce,
		CommitHash:         game.CommitHash,
		ServerSeedRevealed: game.ServerSeedRevealed,
		Outcome:            game.Outcome,
		Status:             game.Status,
		PayoutDelta:        game.PayoutDelta,
	}
}
