package booking

import "sync"

// KeyedMutex hands out one mutex per key so check-then-reserve sequences for
// the same room (or the same booking) serialize while unrelated keys proceed
// concurrently. Every writer of a booking's status must go through the same
// instance, so the per-booking lock is constructed once and shared between
// the booking and approval services. Entries are never evicted; the key space
// is bounded by the number of rooms and active bookings.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
