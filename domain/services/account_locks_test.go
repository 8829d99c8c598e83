package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocks_ReleasesEntries(t *testing.T) {
	locks := newAccountLocks()

	unlock := locks.Lock(3, 1, 3)
	assert.Equal(t, 2, locks.size())
	unlock()

	assert.Equal(t, 0, locks.size())
}

func TestAccountLocks_OpposingPairsDoNotDeadlock(t *testing.T) {
	locks := newAccountLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var unlock func()
			if i%2 == 0 {
				unlock = locks.Lock(1, 2)
			} else {
				unlock = locks.Lock(2, 1)
			}
			counter++
			unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
	assert.Equal(t, 0, locks.size())
}
