package services

import "sync"

// keyedMutex serialises work per user id over a fixed set of stripes. Two
// users may share a stripe; one user always maps to the same stripe.
type keyedMutex struct {
	stripes []sync.Mutex
}

func newKeyedMutex(n int) *keyedMutex {
	if n <= 0 {
		n = 1
	}
	return &keyedMutex{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for id and returns its unlock function.
func (k *keyedMutex) Lock(id int64) func() {
	m := &k.stripes[uint64(id)%uint64(len(k.stripes))]
	m.Lock()
	return m.Unlock
}
