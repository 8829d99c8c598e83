package services

import (
	"context"
	"fmt"
	"time"

	"coinbot/domain/entities"
	"coinbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

func (s *economyService) Claim(ctx context.Context, userID int64, bucket entities.ClaimBucket) (*entities.ClaimResult, error) {
	if !bucket.IsValid() {
		return nil, fmt.Errorf("unknown claim bucket %q", bucket)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.getAccount(ctx, userID); err != nil {
		return nil, err
	}

	lastClaim, err := s.store.GetLastClaim(ctx, userID, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get last %s claim: %w", bucket, err)
	}

	now := s.now().Unix()
	cooldown := int64(bucket.Cooldown() / time.Second)

	// Equality is still inside the cooldown
	if now-lastClaim <= cooldown {
		wait := time.Duration(lastClaim+cooldown-now) * time.Second
		return &entities.ClaimResult{
			Bucket: bucket,
			Rejection: &entities.Rejection{
				Reason: entities.RejectionCooldown,
				Wait:   wait,
			},
		}, nil
	}

	// The timestamp goes first so a failed credit cannot be claimed twice
	if err := s.store.SetLastClaim(ctx, userID, bucket, now); err != nil {
		return nil, fmt.Errorf("failed to set last %s claim: %w", bucket, err)
	}

	reward := s.cfg.Reward(bucket)
	newBalance, err := s.store.ChangeBalance(ctx, userID, reward)
	if err != nil {
		return nil, fmt.Errorf("failed to credit %s reward: %w", bucket, err)
	}

	utils.RecordBalanceChange(s.eventPublisher, userID, newBalance, reward, entities.TransactionTypeClaimReward)

	log.WithFields(log.Fields{
		"userID":     userID,
		"bucket":     bucket,
		"reward":     reward,
		"newBalance": newBalance,
	}).Info("Claim paid")

	return &entities.ClaimResult{
		Bucket:     bucket,
		Reward:     reward,
		NewBalance: newBalance,
		ClaimedAt:  now,
	}, nil
}
