package events

import "coinbot/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeWagerResolved  EventType = "wager_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                    `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	ChangeAmount    int64                    `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted the first time an account is referenced
type AccountCreatedEvent struct {
	UserID int64 `json:"user_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// WagerResolvedEvent represents a settled coin flip, dice roll or wheel spin
type WagerResolvedEvent struct {
	UserID  int64             `json:"user_id"`
	Game    entities.GameType `json:"game"`
	Stake   int64             `json:"stake"`
	Payout  int64             `json:"payout"`
	Won     bool              `json:"won"`
	Outcome string            `json:"outcome"`
}

func (e WagerResolvedEvent) Type() EventType {
	return EventTypeWagerResolved
}
