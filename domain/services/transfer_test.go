package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coinbot/domain/entities"
	"coinbot/domain/events"
	"coinbot/domain/testhelpers"
	"coinbot/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func balanceOf(t *testing.T, store *memory.Store, id int64) int64 {
	t.Helper()
	account, _, err := store.GetOrCreateAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func TestEconomyService_Send_Scenario(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)
	require.NoError(t, store.SetBalance(ctx, TestUserID, 50))
	require.NoError(t, store.SetBalance(ctx, TestUser2ID, 10))

	result, err := service.Send(ctx, TestUserID, TestUser2ID, 30)
	require.NoError(t, err)
	require.Nil(t, result.Rejection)
	assert.Equal(t, int64(20), result.FromBalance)
	assert.Equal(t, int64(40), result.ToBalance)

	assert.Equal(t, int64(20), balanceOf(t, store, TestUserID))
	assert.Equal(t, int64(40), balanceOf(t, store, TestUser2ID))
}

func TestEconomyService_Send_ConservesTotal(t *testing.T) {
	ctx := context.Background()

	for _, amount := range []int64{1, 2, 17, 99, 100} {
		store := memory.New()
		service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)
		require.NoError(t, store.SetBalance(ctx, TestUserID, 100))
		require.NoError(t, store.SetBalance(ctx, TestUser2ID, 5))

		result, err := service.Send(ctx, TestUserID, TestUser2ID, amount)
		require.NoError(t, err)
		require.Nil(t, result.Rejection, "amount %d", amount)

		from := balanceOf(t, store, TestUserID)
		to := balanceOf(t, store, TestUser2ID)
		assert.Equal(t, 100-amount, from)
		assert.Equal(t, 5+amount, to)
		assert.Equal(t, int64(105), from+to)
	}
}

func TestEconomyService_Send_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		from      int64
		to        int64
		amount    int64
		reason    entities.RejectionReason
		shortfall int64
	}{
		{name: "self transfer", from: TestUserID, to: TestUserID, amount: 10, reason: entities.RejectionSelfTransfer},
		{name: "to bot", from: TestUserID, to: TestBotID, amount: 10, reason: entities.RejectionReservedAccount},
		{name: "insufficient funds", from: TestUserID, to: TestUser2ID, amount: 51, reason: entities.RejectionInsufficientFunds, shortfall: 1},
		{name: "zero amount", from: TestUserID, to: TestUser2ID, amount: 0, reason: entities.RejectionInvalidAmount},
		{name: "negative amount", from: TestUserID, to: TestUser2ID, amount: -5, reason: entities.RejectionInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			service, publisher := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)
			require.NoError(t, store.SetBalance(ctx, TestUserID, 50))
			require.NoError(t, store.SetBalance(ctx, TestUser2ID, 10))

			result, err := service.Send(ctx, tt.from, tt.to, tt.amount)
			require.NoError(t, err)
			require.NotNil(t, result.Rejection)
			assert.Equal(t, tt.reason, result.Rejection.Reason)
			assert.Equal(t, tt.shortfall, result.Rejection.Shortfall)

			assert.Equal(t, int64(50), balanceOf(t, store, TestUserID))
			assert.Equal(t, int64(10), balanceOf(t, store, TestUser2ID))
			assert.Empty(t, publisher.OfType(events.EventTypeBalanceChange))
		})
	}
}

func TestEconomyService_Send_EarlyRejectionsSkipStore(t *testing.T) {
	ctx := context.Background()
	store := new(testhelpers.MockLedgerStore)
	service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)

	_, err := service.Send(ctx, TestUserID, TestUserID, 10)
	require.NoError(t, err)
	_, err = service.Send(ctx, TestUserID, TestBotID, 10)
	require.NoError(t, err)

	store.AssertNotCalled(t, "GetOrCreateAccount", mock.Anything, mock.Anything)
}

func TestEconomyService_Send_RefundsOnCreditFailure(t *testing.T) {
	ctx := context.Background()
	store := new(testhelpers.MockLedgerStore)
	store.On("GetOrCreateAccount", ctx, TestUserID).Return(&entities.Account{ID: TestUserID, Balance: 50}, false, nil)
	store.On("GetOrCreateAccount", ctx, TestUser2ID).Return(&entities.Account{ID: TestUser2ID}, false, nil)
	store.On("ChangeBalance", ctx, TestUserID, int64(-30)).Return(int64(20), nil).Once()
	store.On("ChangeBalance", ctx, TestUser2ID, int64(30)).Return(int64(0), errors.New("timeout")).Once()
	store.On("ChangeBalance", ctx, TestUserID, int64(30)).Return(int64(50), nil).Once()

	service, publisher := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)

	result, err := service.Send(ctx, TestUserID, TestUser2ID, 30)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, publisher.OfType(events.EventTypeBalanceChange))
	store.AssertExpectations(t)
}

func TestEconomyService_Send_PublishesBothSides(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service, publisher := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)
	require.NoError(t, store.SetBalance(ctx, TestUserID, 50))

	_, err := service.Send(ctx, TestUserID, TestUser2ID, 30)
	require.NoError(t, err)

	changes := publisher.OfType(events.EventTypeBalanceChange)
	require.Len(t, changes, 2)
	out := changes[0].(events.BalanceChangeEvent)
	in := changes[1].(events.BalanceChangeEvent)
	assert.Equal(t, entities.TransactionTypeTransferOut, out.TransactionType)
	assert.Equal(t, int64(-30), out.ChangeAmount)
	assert.Equal(t, entities.TransactionTypeTransferIn, in.TransactionType)
	assert.Equal(t, int64(30), in.NewBalance)
}

func TestEconomyService_Send_ConcurrentNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)
	require.NoError(t, store.SetBalance(ctx, TestUserID, 100))

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Alternate directions to exercise lock ordering
			from, to := TestUserID, TestUser2ID
			if i%4 == 3 {
				from, to = TestUser2ID, TestUserID
			}
			result, err := service.Send(ctx, from, to, 10)
			assert.NoError(t, err)
			if result != nil && result.Rejection == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	a := balanceOf(t, store, TestUserID)
	b := balanceOf(t, store, TestUser2ID)
	assert.GreaterOrEqual(t, a, int64(0))
	assert.GreaterOrEqual(t, b, int64(0))
	assert.Equal(t, int64(100), a+b)
	assert.Positive(t, accepted)
}
