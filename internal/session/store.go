// Package session manages conversation history keyed by opaque session
// tokens. Two backends implement the same contract: an in-memory map and a
// SQLite database.
package session

import (
	"sync"

	"github.com/soyeahso/advisor/internal/domain"
)

// Store is the session history contract used by the advisor runner.
//
// History mutation is append-only and trimmed oldest-first; the trim happens
// inside AppendAndTrim so a failed upstream round trip never shortens stored
// history. GetOrCreate is a pure read: resolving an unknown token mints a
// fresh one but stores nothing until the first append.
type Store interface {
	// GetOrCreate resolves a token to its stored history. An empty or
	// unknown token yields a freshly minted token and empty history.
	GetOrCreate(token string) (string, []domain.Message)

	// AppendAndTrim appends the given messages in order, then drops oldest
	// entries until the store's cap is met. It returns the stored history.
	AppendAndTrim(token string, msgs ...domain.Message) []domain.Message

	// Delete removes the session entirely. Unknown tokens are a no-op.
	Delete(token string)

	// Len reports the number of live sessions.
	Len() int
}

// KeyedMutex serializes work per key while letting distinct keys proceed in
// parallel. The advisor runner holds the token's lock across the full
// read-call-write cycle so concurrent requests on one conversation apply in
// arrival order.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns the matching unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
