package utils

import (
	"errors"
	"math"
	"testing"

	"coinbot/domain/entities"
	"coinbot/domain/events"
	"coinbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRecordBalanceChange_PublishesEvent(t *testing.T) {
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.MatchedBy(func(e events.BalanceChangeEvent) bool {
		return e.UserID == 42 &&
			e.OldBalance == 100 &&
			e.NewBalance == 70 &&
			e.ChangeAmount == -30 &&
			e.TransactionType == entities.TransactionTypeTransferOut
	})).Return(nil)

	RecordBalanceChange(publisher, 42, 70, -30, entities.TransactionTypeTransferOut)

	publisher.AssertExpectations(t)
}

func TestRecordBalanceChange_PublishErrorIsSwallowed(t *testing.T) {
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return(errors.New("bus down"))

	assert.NotPanics(t, func() {
		RecordBalanceChange(publisher, 1, 10, 10, entities.TransactionTypeClaimReward)
	})
	publisher.AssertExpectations(t)
}

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name       string
		stake      int64
		multiplier float64
		expected   int64
	}{
		{name: "double", stake: 50, multiplier: 2.0, expected: 100},
		{name: "zero multiplier", stake: 50, multiplier: 0, expected: 0},
		{name: "rounds down", stake: 3, multiplier: 0.1, expected: 0},
		{name: "half to even down", stake: 5, multiplier: 0.5, expected: 2},
		{name: "half to even up", stake: 3, multiplier: 0.5, expected: 2},
		{name: "fractional", stake: 10, multiplier: 5.5, expected: 55},
		{name: "saturates above int64", stake: 1_700_000_000_000_000_000, multiplier: 5.5, expected: math.MaxInt64},
		{name: "saturates at max stake", stake: math.MaxInt64, multiplier: 1.0, expected: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculatePayout(tt.stake, tt.multiplier))
		})
	}
}
