package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_SerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("emp-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLock_DifferentKeysIndependent(t *testing.T) {
	k := New()

	unlockA := k.Lock("emp-1")

	// A different key must not block behind emp-1's held lock.
	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("emp-2")
		unlockB()
		close(done)
	}()
	<-done

	unlockA()
}

func TestLock_EntriesReleasedWhenUnused(t *testing.T) {
	k := New()

	unlock := k.Lock("emp-1")
	unlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
