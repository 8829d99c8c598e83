package services

import (
	"context"
	"fmt"

	"coinbot/domain/entities"
	"coinbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

func (s *economyService) Send(ctx context.Context, fromID, toID int64, amount int64) (*entities.TransferResult, error) {
	result := &entities.TransferResult{
		FromUserID: fromID,
		ToUserID:   toID,
		Amount:     amount,
	}

	switch {
	case amount <= 0:
		result.Rejection = &entities.Rejection{Reason: entities.RejectionInvalidAmount}
		return result, nil
	case fromID == toID:
		result.Rejection = &entities.Rejection{Reason: entities.RejectionSelfTransfer}
		return result, nil
	case toID == s.cfg.BotAccountID:
		result.Rejection = &entities.Rejection{Reason: entities.RejectionReservedAccount}
		return result, nil
	}

	unlock := s.locks.Lock(fromID, toID)
	defer unlock()

	sender, err := s.getAccount(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if !sender.CanAfford(amount) {
		result.FromBalance = sender.Balance
		result.Rejection = &entities.Rejection{
			Reason:    entities.RejectionInsufficientFunds,
			Shortfall: sender.Shortfall(amount),
		}
		return result, nil
	}

	if _, err := s.getAccount(ctx, toID); err != nil {
		return nil, err
	}

	fromBalance, err := s.store.ChangeBalance(ctx, fromID, -amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}

	toBalance, err := s.store.ChangeBalance(ctx, toID, amount)
	if err != nil {
		// Put the debit back so the failed transfer does not burn currency
		if _, refundErr := s.store.ChangeBalance(ctx, fromID, amount); refundErr != nil {
			log.WithError(refundErr).WithFields(log.Fields{
				"fromID": fromID,
				"toID":   toID,
				"amount": amount,
			}).Error("Failed to refund sender after failed transfer credit")
		}
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	utils.RecordBalanceChange(s.eventPublisher, fromID, fromBalance, -amount, entities.TransactionTypeTransferOut)
	utils.RecordBalanceChange(s.eventPublisher, toID, toBalance, amount, entities.TransactionTypeTransferIn)

	log.WithFields(log.Fields{
		"fromID": fromID,
		"toID":   toID,
		"amount": amount,
	}).Info("Transfer completed")

	result.FromBalance = fromBalance
	result.ToBalance = toBalance
	return result, nil
}
