package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductAvailable(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) Lock(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) ReleaseAndSettle(ctx context.Context, id string, lockedAmount, netDelta int64) error {
	args := m.Called(ctx, id, lockedAmount, netDelta)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) NextID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Update(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByPlayer(ctx context.Context, player string, limit int) ([]*models.Game, error) {
	args := m.Called(ctx, player, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

// MockCommitRepository is a mock implementation of CommitRepository
type MockCommitRepository struct {
	mock.Mock
}

func (m *MockCommitRepository) Create(ctx context.Context, commit *models.FairnessCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *MockCommitRepository) GetByGameID(ctx context.Context, gameID int64) (*models.FairnessCommit, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FairnessCommit), args.Error(1)
}

func (m *MockCommitRepository) MarkRevealed(ctx context.Context, gameID int64, serverSeed, clientSeed string, nonce int64, outcomeBit int16) error {
	args := m.Called(ctx, gameID, serverSeed, clientSeed, nonce, outcomeBit)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockAppConfigRepository is a mock implementation of AppConfigRepository
type MockAppConfigRepository struct {
	mock.Mock
}

func (m *MockAppConfigRepository) Get(ctx context.Context) (*models.AppConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppConfig), args.Error(1)
}

func (m *MockAppConfigRepository) Create(ctx context.Context, admin string, feeBps int64) error {
	args := m.Called(ctx, admin, feeBps)
	return args.Error(0)
}

func (m *MockAppConfigRepository) UpdateFee(ctx context.Context, feeBps int64) error {
	args := m.Called(ctx, feeBps)
	return args.Error(0)
}

func (m *MockAppConfigRepository) AddAccruedFees(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

// MockAuthorizer is a mock implementation of Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) VerifyCaller(ctx context.Context, identity string) bool {
	args := m.Called(ctx, identity)
	return args.Bool(0)
}

// MockTokenTransferor is a mock implementation of TokenTransferor
type MockTokenTransferor struct {
	mock.Mock
}

func (m *MockTokenTransferor) TransferIn(ctx context.Context, from string, amount int64) (string, error) {
	args := m.Called(ctx, from, amount)
	return args.String(0), args.Error(1)
}

func (m *MockTokenTransferor) TransferOut(ctx context.Context, to string, amount int64) (string, error) {
	args := m.Called(ctx, to, amount)
	return args.String(0), args.Error(1)
}

// MockSeedVault is a mock implementation of SeedVault
type MockSeedVault struct {
	mock.Mock
}

func (m *MockSeedVault) NewCommitment(ctx context.Context, gameID int64) (string, error) {
	args := m.Called(ctx, gameID)
	return args.String(0), args.Error(1)
}

func (m *MockSeedVault) Reveal(gameID int64) ([]byte, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// CapturingPublisher collects published events for assertions
type CapturingPublisher struct {
	Events []events.Event
}

func (p *CapturingPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo     AccountRepository
	gameRepo        GameRepository
	commitRepo      CommitRepository
	ledgerEntryRepo LedgerEntryRepository
	appConfigRepo   AppConfigRepository
	eventBus        *CapturingPublisher
}

// SetRepositories wires the mock repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(accounts AccountRepository, games GameRepository, commits CommitRepository, ledger LedgerEntryRepository, appConfig AppConfigRepository) {
	m.accountRepo = accounts
	m.gameRepo = games
	m.commitRepo = commits
	m.ledgerEntryRepo = ledger
	m.appConfigRepo = appConfig
	m.eventBus = &CapturingPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) CommitRepository() CommitRepository {
	return m.commitRepo
}

func (m *MockUnitOfWork) LedgerEntryRepository() LedgerEntryRepository {
	return m.ledgerEntryRepo
}

func (m *MockUnitOfWork) AppConfigRepository() AppConfigRepository {
	return m.appConfigRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events captured by the transactional bus
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
