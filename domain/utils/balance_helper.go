package utils

import (
	"math"

	"coinbot/domain/entities"
	"coinbot/domain/events"
	"coinbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange emits a BalanceChangeEvent for a mutation that already happened.
// Publishing failures are logged and never fail the caller.
func RecordBalanceChange(eventPublisher interfaces.EventPublisher, userID, newBalance, changeAmount int64, transactionType entities.TransactionType) {
	event := events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      newBalance - changeAmount,
		NewBalance:      newBalance,
		ChangeAmount:    changeAmount,
		TransactionType: transactionType,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}
}

// PublishEvent publishes any other domain event with the same failure policy
func PublishEvent(eventPublisher interfaces.EventPublisher, event events.Event) {
	if err := eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
		}).WithError(err).Error("Failed to publish event")
	}
}

// CalculatePayout applies a multiplier to a stake, rounding halves to even.
// Products beyond the int64 range saturate at math.MaxInt64.
func CalculatePayout(stake int64, multiplier float64) int64 {
	payout := math.RoundToEven(float64(stake) * multiplier)
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit
	if payout >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(payout)
}
