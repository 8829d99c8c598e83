package interfaces

import (
	"context"

	"coinbot/domain/entities"
)

// EconomyService defines the ledger operations available to users
type EconomyService interface {
	// Balance reports the user's balance; the bot account is reported as infinite
	Balance(ctx context.Context, userID int64) (*entities.BalanceResult, error)

	// Claim pays the bucket reward if its cooldown has elapsed
	Claim(ctx context.Context, userID int64, bucket entities.ClaimBucket) (*entities.ClaimResult, error)

	// Send moves amount from one user to another
	Send(ctx context.Context, fromID, toID int64, amount int64) (*entities.TransferResult, error)

	// CoinFlip stakes amount on a coin flip
	CoinFlip(ctx context.Context, userID int64, side entities.CoinSide, amount int64) (*entities.CoinFlipResult, error)

	// DiceRoll stakes amount on a dice roll
	DiceRoll(ctx context.Context, userID int64, side entities.DiceSide, amount int64) (*entities.DiceRollResult, error)

	// Wheel stakes amount on a wheel spin
	Wheel(ctx context.Context, userID int64, amount int64) (*entities.WheelResult, error)

	// Config returns the economy configuration in effect
	Config() entities.EconomyConfig
}
