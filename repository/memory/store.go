package memory

import (
	"context"
	"fmt"
	"sync"

	"coinbot/domain/entities"
)

// Store is an in-process LedgerStore, used for local runs, simulations and tests
type Store struct {
	mu       sync.RWMutex
	accounts map[int64]*entities.Account
}

func New() *Store {
	return &Store{
		accounts: make(map[int64]*entities.Account),
	}
}

func (s *Store) GetOrCreateAccount(_ context.Context, id int64) (*entities.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		account = entities.NewAccount(id)
		s.accounts[id] = account
	}
	return cloneAccount(account), !ok, nil
}

func (s *Store) SetBalance(_ context.Context, id int64, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreate(id).Balance = value
	return nil
}

func (s *Store) ChangeBalance(_ context.Context, id int64, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.getOrCreate(id)
	account.Balance += delta
	return account.Balance, nil
}

func (s *Store) GetLastClaim(_ context.Context, id int64, bucket entities.ClaimBucket) (int64, error) {
	if !bucket.IsValid() {
		return 0, fmt.Errorf("unknown claim bucket %q", bucket)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return 0, nil
	}
	return account.Last.Get(bucket), nil
}

func (s *Store) SetLastClaim(_ context.Context, id int64, bucket entities.ClaimBucket, unix int64) error {
	if !bucket.IsValid() {
		return fmt.Errorf("unknown claim bucket %q", bucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreate(id).Last.Set(bucket, unix)
	return nil
}

// Len returns the number of stored accounts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// getOrCreate must be called with the write lock held
func (s *Store) getOrCreate(id int64) *entities.Account {
	account, ok := s.accounts[id]
	if !ok {
		account = entities.NewAccount(id)
		s.accounts[id] = account
	}
	return account
}

func cloneAccount(a *entities.Account) *entities.Account {
	c := *a
	c.Inventory = append([]string{}, a.Inventory...)
	return &c
}
