package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"coinbot/config"
	"coinbot/domain/entities"
	"coinbot/domain/interfaces"
	"coinbot/domain/services"
	"coinbot/domain/testhelpers"
	"coinbot/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	botID = int64(999)
	userA = int64(100)
	userB = int64(200)
	now   = int64(1000)
)

func testConfig() entities.EconomyConfig {
	return entities.EconomyConfig{
		Currency:     entities.Currency{Singular: "coin", Plural: "coins"},
		BotAccountID: botID,
		ClaimRewards: map[entities.ClaimBucket]int64{
			entities.ClaimBucketHourly:  10,
			entities.ClaimBucketDaily:   100,
			entities.ClaimBucketMonthly: 2500,
		},
		CoinFlip: entities.ChanceGame{WinChance: 50, RewardMultiplier: 2.0},
		DiceRoll: entities.ChanceGame{WinChance: 17, RewardMultiplier: 5.5},
		Wheel:    [entities.WheelSectors]float64{0.1, 0.2, 0.5, 1.2, 1.5, 1.7, 2.4, 0.3},
	}
}

func newTestDispatcher(t *testing.T, store interfaces.LedgerStore, rng interfaces.Randomizer) *Dispatcher {
	t.Helper()
	economy, err := services.NewEconomyService(store, &testhelpers.RecordingPublisher{}, rng, testConfig(),
		services.WithClock(func() time.Time { return time.Unix(now, 0) }))
	require.NoError(t, err)
	return NewDispatcher(economy)
}

func TestDispatcher_Balance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 1234567))
	require.NoError(t, store.SetBalance(ctx, userB, 1))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(0))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBalance})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Equal(t, "💰 <@100>, your current balance: **1,234,567 coins**", resp.Text)
	require.NotNil(t, resp.Balance)
	assert.Equal(t, int64(1234567), *resp.Balance)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBalance, Args: entities.CommandArgs{Target: entities.UserTarget(userB)}})
	require.NoError(t, err)
	assert.Equal(t, "💰 <@200> has **1 coin**", resp.Text)
	assert.Nil(t, resp.Balance)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBalance, Args: entities.CommandArgs{Target: entities.UserTarget(botID)}})
	require.NoError(t, err)
	assert.Equal(t, "💰 <@999> has **infinite coins**", resp.Text)
}

func TestDispatcher_Claim(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 100))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(0))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandClaim, Args: entities.CommandArgs{Bucket: "hourly"}})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Equal(t, "🎁 You claimed your **hourly** reward of **10 coins**! New balance: **110 coins**", resp.Text)
	assert.Equal(t, int64(110), *resp.Balance)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandClaim, Args: entities.CommandArgs{Bucket: "hourly"}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "❌ Your hourly reward is not ready yet. Try again in **1h 0m 0s**.", resp.Text)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandClaim, Args: entities.CommandArgs{Bucket: "weekly"}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}

func TestDispatcher_Send(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 50))
	require.NoError(t, store.SetBalance(ctx, userB, 10))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(0))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandSend, Args: entities.CommandArgs{Target: entities.UserTarget(userB), Amount: 30}})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Equal(t, "✅ sent **30 coins** to <@200>. New balance: **20 coins**", resp.Text)
	assert.Equal(t, int64(20), *resp.Balance)

	tests := []struct {
		name string
		args entities.CommandArgs
		text string
	}{
		{name: "insufficient", args: entities.CommandArgs{Target: entities.UserTarget(userB), Amount: 21}, text: "❌ Insufficient funds. You need **1 coin** more."},
		{name: "self", args: entities.CommandArgs{Target: entities.UserTarget(userA), Amount: 1}, text: "❌ You cannot send coins to yourself."},
		{name: "bot", args: entities.CommandArgs{Target: entities.UserTarget(botID), Amount: 1}, text: "❌ You cannot send coins to <@999>."},
		{name: "zero amount", args: entities.CommandArgs{Target: entities.UserTarget(userB), Amount: 0}, text: "❌ Amount must be at least 1."},
		{name: "no recipient", args: entities.CommandArgs{Amount: 5}, text: "❌ Please choose a recipient."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandSend, Args: tt.args})
			require.NoError(t, err)
			assert.True(t, resp.IsError)
			assert.Equal(t, tt.text, resp.Text)
		})
	}
}

func TestDispatcher_CoinFlip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 100))
	// 10 wins, 90 loses
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(10, 90))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetCoinFlip, Args: entities.CommandArgs{Side: "heads", Amount: 40}})
	require.NoError(t, err)
	assert.Equal(t, "🪙 The coin landed on **heads**. You won **40 coins**! New balance: **140 coins**", resp.Text)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetCoinFlip, Args: entities.CommandArgs{Side: "heads", Amount: 40}})
	require.NoError(t, err)
	assert.Equal(t, "🪙 The coin landed on **tails**. You lost **40 coins**. New balance: **100 coins**", resp.Text)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetCoinFlip, Args: entities.CommandArgs{Side: "edge", Amount: 40}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetCoinFlip, Args: entities.CommandArgs{Side: "tails", Amount: 500}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "❌ Insufficient funds. You need **400 coins** more.", resp.Text)
}

func TestDispatcher_DiceRoll(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 100))
	// 50 loses the trial, then faces 2 (value 1) differs from the pick
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(50, 1))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetDiceRoll, Args: entities.CommandArgs{Side: "6", Amount: 10}})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Equal(t, "🎲 The die landed on **2**. You lost **10 coins**. New balance: **90 coins**", resp.Text)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetDiceRoll, Args: entities.CommandArgs{Side: "7", Amount: 10}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "❌ Pick a side between 1 and 6.", resp.Text)
}

func TestDispatcher_Wheel(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 100))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(int(entities.DirectionWest)))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetWheel, Args: entities.CommandArgs{Amount: 10}})
	require.NoError(t, err)
	assert.False(t, resp.IsError)

	expected := "`0.3x` `0.1x` `0.2x`\n" +
		"`2.4x` ⬅️ `0.5x`\n" +
		"`1.7x` `1.5x` `1.2x`\n" +
		"🎡 The wheel stopped on **west** (2.4x). You won **14 coins**! New balance: **114 coins**"
	assert.Equal(t, expected, resp.Text)
	assert.Equal(t, int64(114), *resp.Balance)
}

func TestDispatcher_WheelLowMultiplier(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 100))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(int(entities.DirectionNorth)))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBetWheel, Args: entities.CommandArgs{Amount: 10}})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "You lost **9 coins**.")
	assert.Contains(t, resp.Text, "New balance: **91 coins**")
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newTestDispatcher(t, memory.New(), testhelpers.NewScriptedRandomizer(0))

	resp, err := d.Handle(context.Background(), entities.Command{UserID: userA, Name: "rob"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}

func TestDispatcher_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(testhelpers.MockLedgerStore)
	store.On("GetOrCreateAccount", ctx, userA).Return(nil, false, errors.New("no reachable servers"))
	d := newTestDispatcher(t, store, testhelpers.NewScriptedRandomizer(0))

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBalance})
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "no reachable servers")
}

func TestDispatcher_DefaultBotAccountIsTargetable(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.DefaultEconomySettings().Build()
	require.NoError(t, err)
	require.Equal(t, int64(0), cfg.BotAccountID)

	store := memory.New()
	require.NoError(t, store.SetBalance(ctx, userA, 50))
	economy, err := services.NewEconomyService(store, &testhelpers.RecordingPublisher{}, testhelpers.NewScriptedRandomizer(0), cfg)
	require.NoError(t, err)
	d := NewDispatcher(economy)

	resp, err := d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandBalance, Args: entities.CommandArgs{Target: entities.UserTarget(cfg.BotAccountID)}})
	require.NoError(t, err)
	assert.Equal(t, "💰 <@0> has **infinite coins**", resp.Text)
	assert.Nil(t, resp.Balance)

	resp, err = d.Handle(ctx, entities.Command{UserID: userA, Name: entities.CommandSend, Args: entities.CommandArgs{Target: entities.UserTarget(cfg.BotAccountID), Amount: 5}})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "❌ You cannot send coins to <@0>.", resp.Text)

	account, _, err := store.GetOrCreateAccount(ctx, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(50), account.Balance)
}
