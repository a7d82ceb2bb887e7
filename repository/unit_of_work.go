package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ebubechi-ihediwa/StellarCade/database"
	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/service"
)

// queryable abstracts over a connection pool and a transaction so every
// repository works in both modes.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	gameRepo         service.GameRepository
	commitRepo       service.CommitRepository
	ledgerEntryRepo  service.LedgerEntryRepository
	appConfigRepo    service.AppConfigRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.commitRepo = newCommitRepositoryWithTx(tx)
	u.ledgerEntryRepo = newLedgerEntryRepositoryWithTx(tx)
	u.appConfigRepo = newAppConfigRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after the mutations are durable
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// CommitRepository returns the fairness commit repository for this unit of work
func (u *unitOfWork) CommitRepository() service.CommitRepository {
	if u.commitRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.commitRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() service.LedgerEntryRepository {
	if u.ledgerEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerEntryRepo
}

// AppConfigRepository returns the app config repository for this unit of work
func (u *unitOfWork) AppConfigRepository() service.AppConfigRepository {
	if u.appConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.appConfigRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
