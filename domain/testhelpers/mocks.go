package testhelpers

import (
	"context"
	"sync"

	"coinbot/domain/entities"
	"coinbot/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) GetOrCreateAccount(ctx context.Context, id int64) (*entities.Account, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Account), args.Bool(1), args.Error(2)
}

func (m *MockLedgerStore) SetBalance(ctx context.Context, id int64, value int64) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockLedgerStore) ChangeBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerStore) GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (int64, error) {
	args := m.Called(ctx, id, bucket)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerStore) SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) error {
	args := m.Called(ctx, id, bucket, unix)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the published events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the published events of one type
func (p *RecordingPublisher) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ScriptedRandomizer returns queued values in order, then repeats the last one.
// Each value is reduced modulo n.
type ScriptedRandomizer struct {
	mu     sync.Mutex
	values []int
	calls  []int
}

// NewScriptedRandomizer creates a randomizer that replays values
func NewScriptedRandomizer(values ...int) *ScriptedRandomizer {
	return &ScriptedRandomizer{values: values}
}

func (r *ScriptedRandomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, n)

	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return v % n
}

// Calls returns the n argument of every IntN call
func (r *ScriptedRandomizer) Calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.calls))
	copy(out, r.calls)
	return out
}
