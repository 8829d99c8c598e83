package infrastructure

import (
	"fmt"

	"coinbot/domain/events"
)

const (
	SubjectBalanceChanged = "economy.balance.changed"
	SubjectAccountCreated = "economy.accounts.created"
	SubjectWagerResolved  = "economy.wagers.resolved"

	// EconomyEventStream is the JetStream stream holding every economy subject
	EconomyEventStream = "economy_events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return SubjectBalanceChanged
	case events.EventTypeAccountCreated:
		return SubjectAccountCreated
	case events.EventTypeWagerResolved:
		return SubjectWagerResolved
	default:
		return fmt.Sprintf("economy.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectBalanceChanged:
		return events.EventTypeBalanceChange
	case SubjectAccountCreated:
		return events.EventTypeAccountCreated
	case SubjectWagerResolved:
		return events.EventTypeWagerResolved
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectBalanceChanged,
		SubjectAccountCreated,
		SubjectWagerResolved,
	}
}

// GetAllEventTypes returns the event types that have a subject
func (m *EventSubjectMapper) GetAllEventTypes() []events.EventType {
	subjects := m.GetAllSubjects()
	types := make([]events.EventType, 0, len(subjects))
	for _, subject := range subjects {
		types = append(types, m.MapSubjectToEventType(subject))
	}
	return types
}
