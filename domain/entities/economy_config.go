package entities

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidChance     = errors.New("chance must be an integer between 0 and 100")
	ErrInvalidMultiplier = errors.New("multiplier must be a finite non-negative number")
	ErrInvalidReward     = errors.New("claim reward must not be negative")
	ErrWheelSize         = fmt.Errorf("wheel needs exactly %d multipliers", WheelSectors)
)

// Currency holds the display names of the virtual currency
type Currency struct {
	Singular string
	Plural   string
}

// Label picks the unit name for an amount: exactly 1 is singular, anything else plural
func (c Currency) Label(amount int64) string {
	if amount == 1 {
		return c.Singular
	}
	return c.Plural
}

// ChanceGame configures a single Bernoulli-trial wager
type ChanceGame struct {
	WinChance        int     // Percent, 0-100
	RewardMultiplier float64 // Applied to the stake on a win
}

// Validate checks the chance and multiplier ranges
func (g ChanceGame) Validate() error {
	if err := ValidateChance(g.WinChance); err != nil {
		return err
	}
	return ValidateMultiplier(g.RewardMultiplier)
}

// EconomyConfig is the immutable rule table handed to the economy engine
type EconomyConfig struct {
	Currency     Currency
	BotAccountID int64
	ClaimRewards map[ClaimBucket]int64
	CoinFlip     ChanceGame
	DiceRoll     ChanceGame
	Wheel        [WheelSectors]float64 // Indexed by Direction
}

// Reward returns the configured payout for a claim bucket
func (c EconomyConfig) Reward(bucket ClaimBucket) int64 {
	return c.ClaimRewards[bucket]
}

// WheelMultiplier returns the multiplier of a sector
func (c EconomyConfig) WheelMultiplier(d Direction) float64 {
	return c.Wheel[d]
}

// Validate fails fast on any out-of-range setting
func (c EconomyConfig) Validate() error {
	if c.Currency.Singular == "" || c.Currency.Plural == "" {
		return errors.New("currency names must not be empty")
	}
	for _, bucket := range ClaimBuckets {
		reward, ok := c.ClaimRewards[bucket]
		if !ok {
			return fmt.Errorf("missing claim reward for %s bucket", bucket)
		}
		if reward < 0 {
			return fmt.Errorf("%s reward %d: %w", bucket, reward, ErrInvalidReward)
		}
	}
	if err := c.CoinFlip.Validate(); err != nil {
		return fmt.Errorf("coin flip: %w", err)
	}
	if err := c.DiceRoll.Validate(); err != nil {
		return fmt.Errorf("dice roll: %w", err)
	}
	for i, m := range c.Wheel {
		if err := ValidateMultiplier(m); err != nil {
			return fmt.Errorf("wheel sector %s: %w", Directions[i], err)
		}
	}
	return nil
}

// ValidateChance rejects percentages outside 0..100
func ValidateChance(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w, got %d", ErrInvalidChance, percent)
	}
	return nil
}

// ValidateMultiplier rejects negative, NaN and infinite multipliers
func ValidateMultiplier(m float64) error {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidMultiplier, m)
	}
	return nil
}

// ParseWheelMultipliers parses a space-separated list of eight decimals, matched
// positionally to Directions
func ParseWheelMultipliers(s string) ([WheelSectors]float64, error) {
	var wheel [WheelSectors]float64

	fields := strings.Fields(s)
	if len(fields) != WheelSectors {
		return wheel, fmt.Errorf("%w, got %d", ErrWheelSize, len(fields))
	}

	for i, field := range fields {
		m, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return wheel, fmt.Errorf("invalid wheel multiplier %q: %w", field, err)
		}
		if err := ValidateMultiplier(m); err != nil {
			return wheel, fmt.Errorf("wheel sector %s: %w", Directions[i], err)
		}
		wheel[i] = m
	}

	return wheel, nil
}
