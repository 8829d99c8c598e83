package config

import (
	"fmt"
	"os"

	"coinbot/domain/entities"

	"github.com/pelletier/go-toml/v2"
)

// EconomySettings is the raw economy rule table as read from the environment or
// from a TOML file
type EconomySettings struct {
	CurrencySingular string  `env:"CURRENCY_SINGULAR" envDefault:"coin" toml:"currency_singular"`
	CurrencyPlural   string  `env:"CURRENCY_PLURAL" envDefault:"coins" toml:"currency_plural"`
	BotAccountID     int64   `env:"BOT_ACCOUNT_ID" envDefault:"0" toml:"bot_account_id"`
	RewardHourly     int64   `env:"REWARD_HOURLY" envDefault:"10" toml:"reward_hourly"`
	RewardDaily      int64   `env:"REWARD_DAILY" envDefault:"100" toml:"reward_daily"`
	RewardMonthly    int64   `env:"REWARD_MONTHLY" envDefault:"2500" toml:"reward_monthly"`
	CoinFlipChance   int     `env:"COIN_FLIP_CHANCE" envDefault:"50" toml:"coin_flip_chance"`
	CoinFlipReward   float64 `env:"COIN_FLIP_REWARD" envDefault:"2.0" toml:"coin_flip_reward"`
	DiceRollChance   int     `env:"DICE_ROLL_CHANCE" envDefault:"17" toml:"dice_roll_chance"`
	DiceRollReward   float64 `env:"DICE_ROLL_REWARD" envDefault:"5.5" toml:"dice_roll_reward"`
	WheelMultipliers string  `env:"WHEEL_MULTIPLIERS" envDefault:"0.1 0.2 0.5 1.2 1.5 1.7 2.4 0.3" toml:"wheel_multipliers"`
}

// DefaultEconomySettings returns the same values the envDefault tags carry
func DefaultEconomySettings() EconomySettings {
	return EconomySettings{
		CurrencySingular: "coin",
		CurrencyPlural:   "coins",
		RewardHourly:     10,
		RewardDaily:      100,
		RewardMonthly:    2500,
		CoinFlipChance:   50,
		CoinFlipReward:   2.0,
		DiceRollChance:   17,
		DiceRollReward:   5.5,
		WheelMultipliers: "0.1 0.2 0.5 1.2 1.5 1.7 2.4 0.3",
	}
}

// LoadFile overlays the keys present in a TOML file. Absent keys keep their
// current value.
func (s *EconomySettings) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open economy file: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(s); err != nil {
		return fmt.Errorf("failed to decode economy file %s: %w", path, err)
	}
	return nil
}

// Economy converts the raw settings into a validated rule table
func (c *Config) Economy() (entities.EconomyConfig, error) {
	return c.EconomySettings.Build()
}

// Build converts the raw settings into a validated rule table
func (s EconomySettings) Build() (entities.EconomyConfig, error) {
	wheel, err := entities.ParseWheelMultipliers(s.WheelMultipliers)
	if err != nil {
		return entities.EconomyConfig{}, fmt.Errorf("invalid WHEEL_MULTIPLIERS: %w", err)
	}

	cfg := entities.EconomyConfig{
		Currency: entities.Currency{
			Singular: s.CurrencySingular,
			Plural:   s.CurrencyPlural,
		},
		BotAccountID: s.BotAccountID,
		ClaimRewards: map[entities.ClaimBucket]int64{
			entities.ClaimBucketHourly:  s.RewardHourly,
			entities.ClaimBucketDaily:   s.RewardDaily,
			entities.ClaimBucketMonthly: s.RewardMonthly,
		},
		CoinFlip: entities.ChanceGame{
			WinChance:        s.CoinFlipChance,
			RewardMultiplier: s.CoinFlipReward,
		},
		DiceRoll: entities.ChanceGame{
			WinChance:        s.DiceRollChance,
			RewardMultiplier: s.DiceRollReward,
		},
		Wheel: wheel,
	}

	if err := cfg.Validate(); err != nil {
		return entities.EconomyConfig{}, fmt.Errorf("invalid economy settings: %w", err)
	}
	return cfg, nil
}
