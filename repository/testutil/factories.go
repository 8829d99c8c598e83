package testutil

import (
	"context"
	"testing"

	"coinbot/domain/entities"
	"coinbot/domain/interfaces"

	"github.com/stretchr/testify/require"
)

// SeedAccount creates an account with the given balance in any LedgerStore
func SeedAccount(t *testing.T, store interfaces.LedgerStore, id int64, balance int64) {
	t.Helper()
	ctx := context.Background()
	_, _, err := store.GetOrCreateAccount(ctx, id)
	require.NoError(t, err)
	require.NoError(t, store.SetBalance(ctx, id, balance))
}

// RunLedgerStoreContract exercises the behaviour every LedgerStore backend shares.
// newStore must return an empty store.
func RunLedgerStoreContract(t *testing.T, newStore func(t *testing.T) interfaces.LedgerStore) {
	ctx := context.Background()

	t.Run("get or create", func(t *testing.T) {
		store := newStore(t)

		account, created, err := store.GetOrCreateAccount(ctx, 1001)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, int64(1001), account.ID)
		require.Equal(t, int64(0), account.Balance)
		require.Empty(t, account.Inventory)
		require.Equal(t, entities.LastClaims{}, account.Last)

		again, created, err := store.GetOrCreateAccount(ctx, 1001)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, account.ID, again.ID)
	})

	t.Run("set and change balance", func(t *testing.T) {
		store := newStore(t)
		SeedAccount(t, store, 1002, 50)

		balance, err := store.ChangeBalance(ctx, 1002, -30)
		require.NoError(t, err)
		require.Equal(t, int64(20), balance)

		balance, err = store.ChangeBalance(ctx, 1002, 15)
		require.NoError(t, err)
		require.Equal(t, int64(35), balance)

		account, _, err := store.GetOrCreateAccount(ctx, 1002)
		require.NoError(t, err)
		require.Equal(t, int64(35), account.Balance)
	})

	t.Run("change balance creates missing account", func(t *testing.T) {
		store := newStore(t)

		balance, err := store.ChangeBalance(ctx, 1003, 7)
		require.NoError(t, err)
		require.Equal(t, int64(7), balance)
	})

	t.Run("last claims per bucket", func(t *testing.T) {
		store := newStore(t)
		SeedAccount(t, store, 1004, 0)

		for _, bucket := range entities.ClaimBuckets {
			last, err := store.GetLastClaim(ctx, 1004, bucket)
			require.NoError(t, err)
			require.Equal(t, int64(0), last)
		}

		require.NoError(t, store.SetLastClaim(ctx, 1004, entities.ClaimBucketDaily, 1_700_000_000))

		last, err := store.GetLastClaim(ctx, 1004, entities.ClaimBucketDaily)
		require.NoError(t, err)
		require.Equal(t, int64(1_700_000_000), last)

		last, err = store.GetLastClaim(ctx, 1004, entities.ClaimBucketHourly)
		require.NoError(t, err)
		require.Equal(t, int64(0), last)

		account, _, err := store.GetOrCreateAccount(ctx, 1004)
		require.NoError(t, err)
		require.Equal(t, int64(1_700_000_000), account.Last.Daily)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		store := newStore(t)

		_, err := store.GetLastClaim(ctx, 1005, entities.ClaimBucket("weekly"))
		require.Error(t, err)
		require.Error(t, store.SetLastClaim(ctx, 1005, entities.ClaimBucket("weekly"), 1))
	})
}
