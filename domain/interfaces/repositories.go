package interfaces

import (
	"context"

	"coinbot/domain/entities"
	"coinbot/domain/events"
)

// LedgerStore defines the interface for per-account ledger persistence.
// Every backend must implement ChangeBalance as an atomic increment.
type LedgerStore interface {
	// GetOrCreateAccount returns the account, persisting a zero record first if none exists.
	// created reports whether this call inserted the record.
	GetOrCreateAccount(ctx context.Context, id int64) (account *entities.Account, created bool, err error)

	// SetBalance overwrites the balance
	SetBalance(ctx context.Context, id int64, value int64) error

	// ChangeBalance adds delta (which may be negative) and returns the new balance
	ChangeBalance(ctx context.Context, id int64, delta int64) (int64, error)

	// GetLastClaim returns the unix time of the last claim in bucket, 0 if never claimed
	GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (int64, error)

	// SetLastClaim records the unix time of a claim in bucket
	SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// Randomizer is the source of chance for the wagering games
type Randomizer interface {
	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}
