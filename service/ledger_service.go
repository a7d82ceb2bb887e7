package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

type ledgerService struct {
	uowFactory    UnitOfWorkFactory
	authorizer    Authorizer
	transferor    TokenTransferor
	defaultFeeBps int64
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, authorizer Authorizer, transferor TokenTransferor, defaultFeeBps int64) LedgerService {
	return &ledgerService{
		uowFactory:    uowFactory,
		authorizer:    authorizer,
		transferor:    transferor,
		defaultFeeBps: defaultFeeBps,
	}
}

// Initialize stores the admin identity and the initial fee schedule
func (s *ledgerService) Initialize(ctx context.Context, admin string) error {
	if admin == "" {
		return fmt.Errorf("admin identity must not be empty")
	}
	if s.defaultFeeBps < 0 || s.defaultFeeBps > models.MaxFeeBasisPoints {
		return fmt.Errorf("%w: %d basis points", ErrInvalidFee, s.defaultFeeBps)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AppConfigRepository().Create(ctx, admin, s.defaultFeeBps); err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"admin":  admin,
		"feeBps": s.defaultFeeBps,
	}).Info("Ledger initialized")

	return nil
}

// SetFee updates the house fee; admin only
func (s *ledgerService) SetFee(ctx context.Context, caller string, feeBps int64) error {
	if feeBps < 0 || feeBps > models.MaxFeeBasisPoints {
		return fmt.Errorf("%w: %d basis points", ErrInvalidFee, feeBps)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.AppConfigRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("ledger not initialized")
	}
	if caller != cfg.Admin || !s.authorizer.VerifyCaller(ctx, caller) {
		return fmt.Errorf("fee change requires admin: %w", ErrUnauthorized)
	}

	if err := uow.AppConfigRepository().UpdateFee(ctx, feeBps); err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}

	uow.EventBus().Publish(events.FeeChangedEvent{FeeBps: feeBps})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Deposit credits an account, creating it on first use
func (s *ledgerService) Deposit(ctx context.Context, account string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit must be positive, got %d", ErrInvalidAmount, amount)
	}
	if account == "" {
		return nil, fmt.Errorf("account identity must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	acct, err := uow.AccountRepository().GetOrCreate(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// Pull the tokens in before crediting the custodial balance. The
	// transfer collaborator either fully succeeds or fails.
	transferRef, err := s.transferor.TransferIn(ctx, account, amount)
	if err != nil {
		return nil, fmt.Errorf("token transfer in failed: %w", err)
	}

	if err := uow.AccountRepository().AddBalance(ctx, account, amount); err != nil {
		return nil, fmt.Errorf("failed to credit account: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     account,
		Amount:        amount,
		BalanceBefore: acct.Balance,
		BalanceAfter:  acct.Balance + amount,
		EntryType:     models.EntryTypeDeposit,
		TransferRef:   &transferRef,
	}
	if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	uow.EventBus().Publish(events.DepositedEvent{
		Account: account,
		Amount:  amount,
		Balance: acct.Balance + amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	acct.Balance += amount
	return acct, nil
}

// Withdraw debits the available balance and triggers the external token
// transfer out
func (s *ledgerService) Withdraw(ctx context.Context, caller, account string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: withdrawal must be positive, got %d", ErrInvalidAmount, amount)
	}
	if caller != account || !s.authorizer.VerifyCaller(ctx, caller) {
		return nil, fmt.Errorf("withdrawal requires the account owner: %w", ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	acct, err := uow.AccountRepository().GetByID(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if acct == nil {
		return nil, fmt.Errorf("%w: have 0 available, need %d", ErrInsufficientFunds, amount)
	}

	if err := uow.AccountRepository().DeductAvailable(ctx, account, amount); err != nil {
		return nil, fmt.Errorf("failed to debit account: %w", err)
	}

	transferRef, err := s.transferor.TransferOut(ctx, account, amount)
	if err != nil {
		return nil, fmt.Errorf("token transfer out failed: %w", err)
	}

	entry := &models.LedgerEntry{
		AccountID:     account,
		Amount:        -amount,
		BalanceBefore: acct.Balance,
		BalanceAfter:  acct.Balance - amount,
		EntryType:     models.EntryTypeWithdrawal,
		TransferRef:   &transferRef,
	}
	if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawnEvent{
		Account: account,
		Amount:  amount,
		Balance: acct.Balance - amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	acct.Balance -= amount
	return acct, nil
}

// GetBalance returns the balance for an account, zero for unknown ones
func (s *ledgerService) GetBalance(ctx context.Context, account string) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	acct, err := uow.AccountRepository().GetByID(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if acct == nil {
		return 0, nil
	}

	return acct.Balance, nil
}

// CalculatePayout returns the full pot minus the house fee for a stake
func (s *ledgerService) CalculatePayout(ctx context.Context, stake int64) (int64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("%w: stake must be positive, got %d", ErrInvalidAmount, stake)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.AppConfigRepository().Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get config: %w", err)
	}
	if cfg == nil {
		return 0, fmt.Errorf("ledger not initialized")
	}

	return payoutForStake(stake, cfg.FeeBps), nil
}

// AccruedFees returns the operator's accumulated house fees
func (s *ledgerService) AccruedFees(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.AppConfigRepository().Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get config: %w", err)
	}
	if cfg == nil {
		return 0, nil
	}

	return cfg.FeesAccrued, nil
}

// History returns recent ledger entries for an account
func (s *ledgerService) History(ctx context.Context, account string, limit int) ([]*models.LedgerEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerEntryRepository().GetByAccount(ctx, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	return entries, nil
}
