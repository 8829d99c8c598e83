package services

import (
	"sync"
	"testing"
	"time"

	"coinbot/domain/entities"
	"coinbot/domain/interfaces"
	"coinbot/domain/testhelpers"

	"github.com/stretchr/testify/require"
)

const (
	TestBotID   = int64(999)
	TestUserID  = int64(100)
	TestUser2ID = int64(200)
)

func testEconomyConfig() entities.EconomyConfig {
	return entities.EconomyConfig{
		Currency:     entities.Currency{Singular: "coin", Plural: "coins"},
		BotAccountID: TestBotID,
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

// fakeClock is a settable wall clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(unix int64) *fakeClock {
	return &fakeClock{now: time.Unix(unix, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(unix int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Unix(unix, 0)
}

func newTestService(t *testing.T, store interfaces.LedgerStore, rng interfaces.Randomizer, cfg entities.EconomyConfig, clock *fakeClock) (interfaces.EconomyService, *testhelpers.RecordingPublisher) {
	t.Helper()

	publisher := &testhelpers.RecordingPublisher{}
	if clock == nil {
		clock = newFakeClock(1000)
	}
	service, err := NewEconomyService(store, publisher, rng, cfg, WithClock(clock.Now))
	require.NoError(t, err)
	return service, publisher
}
