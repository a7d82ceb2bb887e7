package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ebubechi-ihediwa/StellarCade/events"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

func setupLedgerMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockAccountRepository, *MockLedgerEntryRepository, *MockAppConfigRepository, *MockAuthorizer, *MockTokenTransferor) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerEntryRepository)
	mockConfigRepo := new(MockAppConfigRepository)
	mockAuthorizer := new(MockAuthorizer)
	mockTransferor := new(MockTokenTransferor)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockLedgerRepo, mockConfigRepo)

	return mockUoW, mockFactory, mockAccountRepo, mockLedgerRepo, mockConfigRepo, mockAuthorizer, mockTransferor
}

func TestLedgerService_Initialize(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Create", ctx, "admin-1", int64(250)).Return(nil)

	err := service.Initialize(ctx, "admin-1")

	assert.NoError(t, err)
	mockConfigRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestLedgerService_Initialize_Twice(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Create", ctx, "admin-1", int64(250)).
		Return(fmt.Errorf("config row exists: %w", ErrAlreadyInitialized))

	err := service.Initialize(ctx, "admin-1")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Initialize_EmptyAdmin(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	err := service.Initialize(ctx, "")

	assert.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_SetFee(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx).Return(&models.AppConfig{Admin: "admin-1", FeeBps: 250}, nil)
	mockConfigRepo.On("UpdateFee", ctx, int64(100)).Return(nil)
	mockAuthorizer.On("VerifyCaller", ctx, "admin-1").Return(true)

	err := service.SetFee(ctx, "admin-1", 100)

	assert.NoError(t, err)
	published := mockUoW.PublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.FeeChangedEvent{FeeBps: 100}, published[0])
	mockConfigRepo.AssertExpectations(t)
}

func TestLedgerService_SetFee_NotAdmin(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx).Return(&models.AppConfig{Admin: "admin-1", FeeBps: 250}, nil)

	err := service.SetFee(ctx, "intruder", 100)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	mockConfigRepo.AssertNotCalled(t, "UpdateFee", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_SetFee_OutOfRange(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	err := service.SetFee(ctx, "admin-1", 10001)
	assert.True(t, errors.Is(err, ErrInvalidFee))

	err = service.SetFee(ctx, "admin-1", -1)
	assert.True(t, errors.Is(err, ErrInvalidFee))

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Deposit(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockLedgerRepo, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreate", ctx, "GALICE").Return(&models.Account{ID: "GALICE", Balance: 0}, nil)
	mockTransferor.On("TransferIn", ctx, "GALICE", int64(1000)).Return("tx-ref-1", nil)
	mockAccountRepo.On("AddBalance", ctx, "GALICE", int64(1000)).Return(nil)

	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == "GALICE" &&
			e.Amount == 1000 &&
			e.BalanceBefore == 0 &&
			e.BalanceAfter == 1000 &&
			e.EntryType == models.EntryTypeDeposit &&
			e.TransferRef != nil && *e.TransferRef == "tx-ref-1"
	})).Return(nil)

	acct, err := service.Deposit(ctx, "GALICE", 1000)

	assert.NoError(t, err)
	assert.Equal(t, int64(1000), acct.Balance)
	published := mockUoW.PublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.DepositedEvent{Account: "GALICE", Amount: 1000, Balance: 1000}, published[0])
	mockAccountRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockTransferor.AssertExpectations(t)
}

func TestLedgerService_Deposit_NonPositive(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	_, err := service.Deposit(ctx, "GALICE", 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = service.Deposit(ctx, "GALICE", -5)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	mockFactory.AssertNotCalled(t, "Create")
	mockTransferor.AssertNotCalled(t, "TransferIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Deposit_TransferFails(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetOrCreate", ctx, "GALICE").Return(&models.Account{ID: "GALICE", Balance: 0}, nil)
	mockTransferor.On("TransferIn", ctx, "GALICE", int64(1000)).Return("", errors.New("chain unavailable"))

	_, err := service.Deposit(ctx, "GALICE", 1000)

	assert.Error(t, err)
	mockAccountRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockLedgerRepo, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAuthorizer.On("VerifyCaller", ctx, "GALICE").Return(true)
	mockAccountRepo.On("GetByID", ctx, "GALICE").Return(&models.Account{ID: "GALICE", Balance: 1000}, nil)
	mockAccountRepo.On("DeductAvailable", ctx, "GALICE", int64(400)).Return(nil)
	mockTransferor.On("TransferOut", ctx, "GALICE", int64(400)).Return("tx-ref-2", nil)

	mockLedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.AccountID == "GALICE" &&
			e.Amount == -400 &&
			e.BalanceBefore == 1000 &&
			e.BalanceAfter == 600 &&
			e.EntryType == models.EntryTypeWithdrawal &&
			e.TransferRef != nil && *e.TransferRef == "tx-ref-2"
	})).Return(nil)

	acct, err := service.Withdraw(ctx, "GALICE", "GALICE", 400)

	assert.NoError(t, err)
	assert.Equal(t, int64(600), acct.Balance)
	published := mockUoW.PublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.WithdrawnEvent{Account: "GALICE", Amount: 400, Balance: 600}, published[0])
	mockAccountRepo.AssertExpectations(t)
	mockTransferor.AssertExpectations(t)
}

func TestLedgerService_Withdraw_NotOwner(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	_, err := service.Withdraw(ctx, "GBOB", "GALICE", 400)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	mockFactory.AssertNotCalled(t, "Create")
	mockTransferor.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Withdraw_Insufficient(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAuthorizer.On("VerifyCaller", ctx, "GALICE").Return(true)
	// The locked portion of the balance is not withdrawable
	mockAccountRepo.On("GetByID", ctx, "GALICE").Return(&models.Account{ID: "GALICE", Balance: 500, Locked: 200}, nil)
	mockAccountRepo.On("DeductAvailable", ctx, "GALICE", int64(400)).
		Return(fmt.Errorf("have 300 available, need 400: %w", ErrInsufficientFunds))

	_, err := service.Withdraw(ctx, "GALICE", "GALICE", 400)

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	mockTransferor.AssertNotCalled(t, "TransferOut", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Withdraw_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAuthorizer.On("VerifyCaller", ctx, "GNOBODY").Return(true)
	mockAccountRepo.On("GetByID", ctx, "GNOBODY").Return(nil, nil)

	_, err := service.Withdraw(ctx, "GNOBODY", "GNOBODY", 400)

	assert.True(t, errors.Is(err, ErrInsufficientFunds))
}

func TestLedgerService_GetBalance(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByID", ctx, "GALICE").Return(&models.Account{ID: "GALICE", Balance: 750}, nil)
	mockAccountRepo.On("GetByID", ctx, "GNOBODY").Return(nil, nil)

	balance, err := service.GetBalance(ctx, "GALICE")
	assert.NoError(t, err)
	assert.Equal(t, int64(750), balance)

	// Unknown accounts read as zero rather than erroring
	balance, err = service.GetBalance(ctx, "GNOBODY")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerService_CalculatePayout(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx).Return(&models.AppConfig{Admin: "admin-1", FeeBps: 250}, nil)

	// 2.5% fee on the doubled pot: 100 * 2 * 9750 / 10000 = 195
	payout, err := service.CalculatePayout(ctx, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(195), payout)

	_, err = service.CalculatePayout(ctx, 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestLedgerService_CalculatePayout_ZeroFee(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 0)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx).Return(&models.AppConfig{Admin: "admin-1", FeeBps: 0}, nil)

	payout, err := service.CalculatePayout(ctx, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), payout)
}

func TestLedgerService_AccruedFees(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, _, mockConfigRepo, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx).Return(&models.AppConfig{Admin: "admin-1", FeeBps: 250, FeesAccrued: 55}, nil)

	fees, err := service.AccruedFees(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(55), fees)
}

func TestLedgerService_History(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, mockLedgerRepo, _, mockAuthorizer, mockTransferor := setupLedgerMocks()

	service := NewLedgerService(mockFactory, mockAuthorizer, mockTransferor, 250)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	entries := []*models.LedgerEntry{
		{ID: 2, AccountID: "GALICE", Amount: -400, EntryType: models.EntryTypeWithdrawal},
		{ID: 1, AccountID: "GALICE", Amount: 1000, EntryType: models.EntryTypeDeposit},
	}
	mockLedgerRepo.On("GetByAccount", ctx, "GALICE", 10).Return(entries, nil)

	got, err := service.History(ctx, "GALICE", 10)
	assert.NoError(t, err)
	assert.Equal(t, entries, got)
}
