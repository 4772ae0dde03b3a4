package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerialisesSameKey(t *testing.T) {
	k := newKeyedMutex(8)

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(42)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_NegativeAndZeroStripes(t *testing.T) {
	k := newKeyedMutex(0)
	assert.Len(t, k.stripes, 1)

	unlock := k.Lock(-7)
	unlock()
	unlock = k.Lock(7)
	unlock()
}

func TestKeyedMutex_DistinctStripesDoNotBlock(t *testing.T) {
	k := newKeyedMutex(2)

	unlockA := k.Lock(0)
	done := make(chan struct{})
	go func() {
		unlockB := k.Lock(1)
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
