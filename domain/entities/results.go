package entities

import (
	"time"
)

// RejectionReason classifies a user-facing rule violation
type RejectionReason string

const (
	RejectionInsufficientFunds RejectionReason = "insufficient_funds"
	RejectionInvalidAmount     RejectionReason = "invalid_amount"
	RejectionSelfTransfer      RejectionReason = "self_transfer"
	RejectionReservedAccount   RejectionReason = "reserved_account"
	RejectionCooldown          RejectionReason = "cooldown"
)

// Rejection describes why an operation was refused. No ledger mutation happened.
type Rejection struct {
	Reason    RejectionReason
	Shortfall int64         // Set for RejectionInsufficientFunds
	Wait      time.Duration // Set for RejectionCooldown
}

// BalanceResult is the outcome of a balance query
type BalanceResult struct {
	UserID   int64
	Balance  int64
	Infinite bool // The reserved bot account has no numeric balance
	Label    string
}

// ClaimResult is the outcome of a periodic claim
type ClaimResult struct {
	Bucket     ClaimBucket
	Reward     int64
	NewBalance int64
	ClaimedAt  int64
	Rejection  *Rejection
}

// Claimed reports whether the reward was paid
func (r *ClaimResult) Claimed() bool {
	return r.Rejection == nil
}

// TransferResult is the outcome of a peer-to-peer transfer
type TransferResult struct {
	FromUserID  int64
	ToUserID    int64
	Amount      int64
	FromBalance int64
	ToBalance   int64
	Rejection   *Rejection
}

// GameType identifies a wagering game
type GameType string

const (
	GameCoinFlip GameType = "coin_flip"
	GameDiceRoll GameType = "dice_roll"
	GameWheel    GameType = "wheel"
)

// WagerResult holds the fields every game reports
type WagerResult struct {
	Game       GameType
	Stake      int64
	Payout     int64
	NewBalance int64
	Won        bool
	Rejection  *Rejection
}

// NetChange is the overall balance movement caused by the wager
func (r *WagerResult) NetChange() int64 {
	if r.Rejection != nil {
		return 0
	}
	return r.Payout - r.Stake
}

// CoinFlipResult is the outcome of a coin flip
type CoinFlipResult struct {
	WagerResult
	Called CoinSide
	Landed CoinSide
}

// DiceRollResult is the outcome of a dice roll
type DiceRollResult struct {
	WagerResult
	Called DiceSide
	Landed DiceSide
}

// WheelResult is the outcome of a wheel spin
type WheelResult struct {
	WagerResult
	Sector     Direction
	Multiplier float64
	Table      [WheelSectors]float64
}
