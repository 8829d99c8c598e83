package services

import (
	"slices"
	"sync"
)

// accountLocks serializes check-then-act sequences per account id within the process
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*accountLock
}

type accountLock struct {
	sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*accountLock)}
}

// Lock acquires the locks for ids in ascending order and returns the release func.
// Duplicate ids are locked once.
func (l *accountLocks) Lock(ids ...int64) func() {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	held := make([]*accountLock, 0, len(ordered))
	for _, id := range ordered {
		lock := l.acquire(id)
		lock.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			l.release(ordered[i], held[i])
		}
	}
}

func (l *accountLocks) acquire(id int64) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &accountLock{}
		l.locks[id] = lock
	}
	lock.refs++
	return lock
}

func (l *accountLocks) release(id int64, lock *accountLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}

// size returns the number of ids with a live lock entry
func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
