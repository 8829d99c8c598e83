package services

import (
	"context"
	"fmt"
	"strconv"

	"coinbot/domain/entities"
	"coinbot/domain/events"
	"coinbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

func (s *economyService) CoinFlip(ctx context.Context, userID int64, side entities.CoinSide, amount int64) (*entities.CoinFlipResult, error) {
	if side != entities.CoinSideHeads && side != entities.CoinSideTails {
		return nil, fmt.Errorf("unknown coin side %q", side)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	result := &entities.CoinFlipResult{Called: side}
	result.Game = entities.GameCoinFlip
	result.Stake = amount

	if err := s.placeStake(ctx, userID, &result.WagerResult); err != nil {
		return nil, err
	}
	if result.Rejection != nil {
		return result, nil
	}

	won, err := RandomChance(s.rng, s.cfg.CoinFlip.WinChance)
	if err != nil {
		return nil, fmt.Errorf("coin flip: %w", err)
	}

	result.Won = won
	result.Landed = side.Opposite()
	if won {
		result.Landed = side
		result.Payout = utils.CalculatePayout(amount, s.cfg.CoinFlip.RewardMultiplier)
	}

	if err := s.settle(ctx, userID, &result.WagerResult, result.Landed.String()); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *economyService) DiceRoll(ctx context.Context, userID int64, side entities.DiceSide, amount int64) (*entities.DiceRollResult, error) {
	if !side.IsValid() {
		return nil, fmt.Errorf("dice side must be between 1 and %d, got %d", entities.DiceSides, side)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	result := &entities.DiceRollResult{Called: side}
	result.Game = entities.GameDiceRoll
	result.Stake = amount

	if err := s.placeStake(ctx, userID, &result.WagerResult); err != nil {
		return nil, err
	}
	if result.Rejection != nil {
		return result, nil
	}

	won, err := RandomChance(s.rng, s.cfg.DiceRoll.WinChance)
	if err != nil {
		return nil, fmt.Errorf("dice roll: %w", err)
	}

	result.Won = won
	if won {
		result.Landed = side
		result.Payout = utils.CalculatePayout(amount, s.cfg.DiceRoll.RewardMultiplier)
	} else {
		result.Landed = s.losingFace(side)
	}

	if err := s.settle(ctx, userID, &result.WagerResult, strconv.Itoa(int(result.Landed))); err != nil {
		return nil, err
	}
	return result, nil
}

// losingFace draws uniform faces until one differs from the caller's pick
func (s *economyService) losingFace(called entities.DiceSide) entities.DiceSide {
	for {
		face := entities.DiceSide(s.rng.IntN(entities.DiceSides) + 1)
		if face != called {
			return face
		}
	}
}

func (s *economyService) Wheel(ctx context.Context, userID int64, amount int64) (*entities.WheelResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	result := &entities.WheelResult{Table: s.cfg.Wheel}
	result.Game = entities.GameWheel
	result.Stake = amount

	if err := s.placeStake(ctx, userID, &result.WagerResult); err != nil {
		return nil, err
	}
	if result.Rejection != nil {
		return result, nil
	}

	result.Sector = entities.Directions[s.rng.IntN(entities.WheelSectors)]
	result.Multiplier = s.cfg.WheelMultiplier(result.Sector)
	result.Payout = utils.CalculatePayout(amount, result.Multiplier)
	result.Won = result.Payout > amount

	if err := s.settle(ctx, userID, &result.WagerResult, result.Sector.String()); err != nil {
		return nil, err
	}
	return result, nil
}

// placeStake validates the stake and debits it. A rule violation is recorded on
// the result and nothing is debited. The caller must hold the account lock.
func (s *economyService) placeStake(ctx context.Context, userID int64, result *entities.WagerResult) error {
	if result.Stake <= 0 {
		result.Rejection = &entities.Rejection{Reason: entities.RejectionInvalidAmount}
		return nil
	}

	account, err := s.getAccount(ctx, userID)
	if err != nil {
		return err
	}
	if !account.CanAfford(result.Stake) {
		result.NewBalance = account.Balance
		result.Rejection = &entities.Rejection{
			Reason:    entities.RejectionInsufficientFunds,
			Shortfall: account.Shortfall(result.Stake),
		}
		return nil
	}

	newBalance, err := s.store.ChangeBalance(ctx, userID, -result.Stake)
	if err != nil {
		return fmt.Errorf("failed to debit stake: %w", err)
	}
	result.NewBalance = newBalance

	utils.RecordBalanceChange(s.eventPublisher, userID, newBalance, -result.Stake, entities.TransactionTypeWagerStake)
	return nil
}

// settle credits the payout, if any, and announces the resolved wager
func (s *economyService) settle(ctx context.Context, userID int64, result *entities.WagerResult, outcome string) error {
	if result.Payout > 0 {
		newBalance, err := s.store.ChangeBalance(ctx, userID, result.Payout)
		if err != nil {
			return fmt.Errorf("failed to credit %s payout: %w", result.Game, err)
		}
		result.NewBalance = newBalance
		utils.RecordBalanceChange(s.eventPublisher, userID, newBalance, result.Payout, entities.TransactionTypeWagerPayout)
	}

	utils.PublishEvent(s.eventPublisher, events.WagerResolvedEvent{
		UserID:  userID,
		Game:    result.Game,
		Stake:   result.Stake,
		Payout:  result.Payout,
		Won:     result.Won,
		Outcome: outcome,
	})

	log.WithFields(log.Fields{
		"userID":     userID,
		"game":       result.Game,
		"stake":      result.Stake,
		"payout":     result.Payout,
		"outcome":    outcome,
		"newBalance": result.NewBalance,
	}).Info("Wager resolved")
	return nil
}
