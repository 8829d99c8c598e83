package services

import (
	"context"
	"testing"

	"coinbot/domain/entities"
	"coinbot/domain/testhelpers"
	"coinbot/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEconomyService_Balance_BotIsInfinite(t *testing.T) {
	store := new(testhelpers.MockLedgerStore)
	service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)

	result, err := service.Balance(context.Background(), TestBotID)
	require.NoError(t, err)
	assert.True(t, result.Infinite)
	store.AssertNotCalled(t, "GetOrCreateAccount", mock.Anything, mock.Anything)
}

func TestEconomyService_Balance_Labels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		balance int64
		label   string
	}{
		{balance: 0, label: "coins"},
		{balance: 1, label: "coin"},
		{balance: 2, label: "coins"},
		{balance: -1, label: "coins"},
	}

	for _, tt := range tests {
		store := memory.New()
		require.NoError(t, store.SetBalance(ctx, TestUserID, tt.balance))
		service, _ := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)

		result, err := service.Balance(ctx, TestUserID)
		require.NoError(t, err)
		assert.False(t, result.Infinite)
		assert.Equal(t, tt.balance, result.Balance)
		assert.Equal(t, tt.label, result.Label, "balance %d", tt.balance)
	}
}

func TestEconomyService_Balance_CreatesAccountLazily(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service, publisher := newTestService(t, store, NewSeededRandomizer(1), testEconomyConfig(), nil)

	result, err := service.Balance(ctx, TestUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Balance)
	assert.Equal(t, 1, store.Len())
	assert.Len(t, publisher.Events(), 1)

	_, err = service.Balance(ctx, TestUserID)
	require.NoError(t, err)
	assert.Len(t, publisher.Events(), 1)
}

func TestNewEconomyService_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entities.EconomyConfig)
		target error
	}{
		{name: "coin flip chance", mutate: func(c *entities.EconomyConfig) { c.CoinFlip.WinChance = 150 }, target: entities.ErrInvalidChance},
		{name: "dice chance", mutate: func(c *entities.EconomyConfig) { c.DiceRoll.WinChance = -1 }, target: entities.ErrInvalidChance},
		{name: "negative multiplier", mutate: func(c *entities.EconomyConfig) { c.Wheel[3] = -0.5 }, target: entities.ErrInvalidMultiplier},
		{name: "negative reward", mutate: func(c *entities.EconomyConfig) { c.ClaimRewards[entities.ClaimBucketDaily] = -1 }, target: entities.ErrInvalidReward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testEconomyConfig()
			tt.mutate(&cfg)

			_, err := NewEconomyService(memory.New(), &testhelpers.RecordingPublisher{}, NewSeededRandomizer(1), cfg)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
