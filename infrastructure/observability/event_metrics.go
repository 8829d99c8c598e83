package observability

import (
	"context"

	domainevents "coinbot/domain/events"
	"coinbot/events"
)

// RecordEvent translates a domain event into counter increments
func (mp *MetricsProvider) RecordEvent(_ context.Context, event domainevents.Event) {
	switch e := event.(type) {
	case domainevents.BalanceChangeEvent:
		mp.RecordBalanceTransaction(e.TransactionType)
	case domainevents.WagerResolvedEvent:
		mp.RecordWagerResolved(string(e.Game), e.Won)
	case domainevents.AccountCreatedEvent:
		mp.RecordAccountCreated()
	}
}

// SubscribeToBus records every ledger event emitted on the bus
func (mp *MetricsProvider) SubscribeToBus(bus *events.Bus) {
	bus.SubscribeAll([]domainevents.EventType{
		domainevents.EventTypeBalanceChange,
		domainevents.EventTypeWagerResolved,
		domainevents.EventTypeAccountCreated,
	}, mp.RecordEvent)
}
