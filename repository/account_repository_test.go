package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebubechi-ihediwa/StellarCade/repository/testutil"
	"github.com/ebubechi-ihediwa/StellarCade/service"
)

func TestAccountRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates on first use", func(t *testing.T) {
		acct, err := repo.GetOrCreate(ctx, "GALICE")
		require.NoError(t, err)
		require.NotNil(t, acct)

		assert.Equal(t, "GALICE", acct.ID)
		assert.Equal(t, int64(0), acct.Balance)
		assert.Equal(t, int64(0), acct.Locked)
		assert.False(t, acct.CreatedAt.IsZero())
	})

	t.Run("returns existing account untouched", func(t *testing.T) {
		_, err := repo.GetOrCreate(ctx, "GBOB")
		require.NoError(t, err)
		require.NoError(t, repo.AddBalance(ctx, "GBOB", 500))

		acct, err := repo.GetOrCreate(ctx, "GBOB")
		require.NoError(t, err)
		assert.Equal(t, int64(500), acct.Balance)
	})

	t.Run("unknown account reads as nil", func(t *testing.T) {
		acct, err := repo.GetByID(ctx, "GNOBODY")
		require.NoError(t, err)
		assert.Nil(t, acct)
	})
}

func TestAccountRepository_DeductAvailable(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "GALICE")
	require.NoError(t, err)
	require.NoError(t, repo.AddBalance(ctx, "GALICE", 1000))

	t.Run("deducts within available balance", func(t *testing.T) {
		err := repo.DeductAvailable(ctx, "GALICE", 400)
		require.NoError(t, err)

		acct, err := repo.GetByID(ctx, "GALICE")
		require.NoError(t, err)
		assert.Equal(t, int64(600), acct.Balance)
	})

	t.Run("locked funds are not available", func(t *testing.T) {
		require.NoError(t, repo.Lock(ctx, "GALICE", 500))

		// 600 on the books, 500 locked, only 100 available
		err := repo.DeductAvailable(ctx, "GALICE", 200)
		assert.True(t, errors.Is(err, service.ErrInsufficientFunds))

		acct, err := repo.GetByID(ctx, "GALICE")
		require.NoError(t, err)
		assert.Equal(t, int64(600), acct.Balance)
		assert.Equal(t, int64(500), acct.Locked)
	})

	t.Run("unknown account is insufficient", func(t *testing.T) {
		err := repo.DeductAvailable(ctx, "GNOBODY", 1)
		assert.True(t, errors.Is(err, service.ErrInsufficientFunds))
	})
}

func TestAccountRepository_Lock(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, "GALICE")
	require.NoError(t, err)
	require.NoError(t, repo.AddBalance(ctx, "GALICE", 1000))

	t.Run("locks within available balance", func(t *testing.T) {
		require.NoError(t, repo.Lock(ctx, "GALICE", 600))

		acct, err := repo.GetByID(ctx, "GALICE")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), acct.Balance)
		assert.Equal(t, int64(600), acct.Locked)
		assert.Equal(t, int64(400), acct.Available())
	})

	t.Run("rejects over-committing lock", func(t *testing.T) {
		err := repo.Lock(ctx, "GALICE", 500)
		assert.True(t, errors.Is(err, service.ErrInsufficientFunds))

		acct, err := repo.GetByID(ctx, "GALICE")
		require.NoError(t, err)
		assert.Equal(t, int64(600), acct.Locked)
	})
}

func TestAccountRepository_ReleaseAndSettle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	setup := func(id string, balance, locked int64) {
		_, err := repo.GetOrCreate(ctx, id)
		require.NoError(t, err)
		require.NoError(t, repo.AddBalance(ctx, id, balance))
		if locked > 0 {
			require.NoError(t, repo.Lock(ctx, id, locked))
		}
	}

	t.Run("win applies positive delta", func(t *testing.T) {
		setup("GWINNER", 1000, 100)

		err := repo.ReleaseAndSettle(ctx, "GWINNER", 100, 95)
		require.NoError(t, err)

		acct, err := repo.GetByID(ctx, "GWINNER")
		require.NoError(t, err)
		assert.Equal(t, int64(1095), acct.Balance)
		assert.Equal(t, int64(0), acct.Locked)
	})

	t.Run("loss applies negative delta up to locked amount", func(t *testing.T) {
		setup("GLOSER", 1000, 100)

		err := repo.ReleaseAndSettle(ctx, "GLOSER", 100, -100)
		require.NoError(t, err)

		acct, err := repo.GetByID(ctx, "GLOSER")
		require.NoError(t, err)
		assert.Equal(t, int64(900), acct.Balance)
		assert.Equal(t, int64(0), acct.Locked)
	})

	t.Run("void releases without balance change", func(t *testing.T) {
		setup("GVOID", 1000, 100)

		err := repo.ReleaseAndSettle(ctx, "GVOID", 100, 0)
		require.NoError(t, err)

		acct, err := repo.GetByID(ctx, "GVOID")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), acct.Balance)
		assert.Equal(t, int64(0), acct.Locked)
	})

	t.Run("rejects releasing more than locked", func(t *testing.T) {
		setup("GUNDER", 1000, 100)

		err := repo.ReleaseAndSettle(ctx, "GUNDER", 200, 0)
		assert.True(t, errors.Is(err, service.ErrInvariantViolation))
	})

	t.Run("rejects loss exceeding the locked stake", func(t *testing.T) {
		setup("GOVERDRAW", 1000, 100)

		err := repo.ReleaseAndSettle(ctx, "GOVERDRAW", 100, -150)
		assert.True(t, errors.Is(err, service.ErrInvariantViolation))
	})
}
