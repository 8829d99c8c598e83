package infrastructure

import (
	"context"

	"coinbot/domain/entities"
	"coinbot/domain/interfaces"
	"coinbot/infrastructure/observability"
)

// InstrumentedStore records call counts, latencies and errors for any LedgerStore
type InstrumentedStore struct {
	next    interfaces.LedgerStore
	metrics *observability.MetricsProvider
	name    string
}

var _ interfaces.LedgerStore = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps next. A nil metrics provider records nothing.
func NewInstrumentedStore(next interfaces.LedgerStore, metrics *observability.MetricsProvider, name string) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics, name: name}
}

func (s *InstrumentedStore) GetOrCreateAccount(ctx context.Context, id int64) (account *entities.Account, created bool, err error) {
	defer s.metrics.MeasureStoreOperation(s.name, "GetOrCreateAccount")(&err)
	return s.next.GetOrCreateAccount(ctx, id)
}

func (s *InstrumentedStore) SetBalance(ctx context.Context, id int64, value int64) (err error) {
	defer s.metrics.MeasureStoreOperation(s.name, "SetBalance")(&err)
	return s.next.SetBalance(ctx, id, value)
}

func (s *InstrumentedStore) ChangeBalance(ctx context.Context, id int64, delta int64) (balance int64, err error) {
	defer s.metrics.MeasureStoreOperation(s.name, "ChangeBalance")(&err)
	return s.next.ChangeBalance(ctx, id, delta)
}

func (s *InstrumentedStore) GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (last int64, err error) {
	defer s.metrics.MeasureStoreOperation(s.name, "GetLastClaim")(&err)
	return s.next.GetLastClaim(ctx, id, bucket)
}

func (s *InstrumentedStore) SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) (err error) {
	defer s.metrics.MeasureStoreOperation(s.name, "SetLastClaim")(&err)
	return s.next.SetLastClaim(ctx, id, bucket, unix)
}
