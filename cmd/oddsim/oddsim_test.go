package oddsim

import (
	"bytes"
	"context"
	"testing"

	"coinbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simConfig() entities.EconomyConfig {
	return entities.EconomyConfig{
		Currency:     entities.Currency{Singular: "coin", Plural: "coins"},
		BotAccountID: 1,
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

func TestRun_MatchesConfiguredOdds(t *testing.T) {
	report, err := Run(context.Background(), simConfig(), Options{Rounds: 8000, Stake: 100, Seed: 42})
	require.NoError(t, err)

	for _, g := range []GameReport{report.CoinFlip, report.DiceRoll, report.Wheel} {
		assert.Equal(t, 8000, g.Rounds, g.Game)
		assert.Equal(t, int64(800000), g.Staked, g.Game)
		assert.InDelta(t, g.ExpectedRTP, g.RTP(), 0.1, g.Game)
	}

	assert.InDelta(t, 0.5, report.CoinFlip.WinRate(), 0.05)
	assert.InDelta(t, 0.17, report.DiceRoll.WinRate(), 0.05)
	assert.InDelta(t, 0.9875, report.Wheel.ExpectedRTP, 1e-9)

	total := 0
	for _, n := range report.Sectors {
		total += n
	}
	assert.Equal(t, 8000, total)
	assert.Less(t, report.SectorChiSquared(), 30.0)
}

func TestRun_ConservesBalance(t *testing.T) {
	report, err := Run(context.Background(), simConfig(), Options{Rounds: 500, Stake: 7, Seed: 1})
	require.NoError(t, err)

	var net int64
	for _, g := range []GameReport{report.CoinFlip, report.DiceRoll, report.Wheel} {
		net += g.Paid - g.Staked
	}
	assert.Equal(t, report.StartBalance+net, report.FinalBalance)
}

func TestRun_Deterministic(t *testing.T) {
	opts := Options{Rounds: 300, Stake: 10, Seed: 7}

	a, err := Run(context.Background(), simConfig(), opts)
	require.NoError(t, err)
	b, err := Run(context.Background(), simConfig(), opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_InvalidOptions(t *testing.T) {
	_, err := Run(context.Background(), simConfig(), Options{Rounds: 0, Stake: 1})
	assert.Error(t, err)

	_, err = Run(context.Background(), simConfig(), Options{Rounds: 1, Stake: 0})
	assert.Error(t, err)

	cfg := simConfig()
	cfg.CoinFlip.WinChance = 120
	_, err = Run(context.Background(), cfg, Options{Rounds: 1, Stake: 1})
	assert.Error(t, err)
}

func TestReport_Print(t *testing.T) {
	report, err := Run(context.Background(), simConfig(), Options{Rounds: 80, Stake: 10, Seed: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "coin_flip")
	assert.Contains(t, out, "dice_roll")
	assert.Contains(t, out, "north-east")
	assert.Contains(t, out, "χ² (sectors)")
	assert.Contains(t, out, "Balance: 2.4k -> ")
}
