package reveal

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store configuration defaults
const (
	DefaultStoreSize = 4096
	DefaultStoreTTL  = time.Hour
)

// Store holds active reveal sessions in memory. Sessions are ephemeral and
// never persisted; the TTL bounds how long an abandoned reveal can linger.
// The eviction hook fires for every removal, including explicit ones, so it
// must be idempotent; the collection manager's per-session commit flag
// provides exactly that.
type Store struct {
	lru *expirable.LRU[string, *Session]
}

// NewStore creates a session store. onEvict runs whenever a session leaves
// the store; pass the commit hook so abandoned reveals still deliver their
// cards.
func NewStore(size int, ttl time.Duration, onEvict func(*Session)) *Store {
	var cb func(string, *Session)
	if onEvict != nil {
		cb = func(_ string, sess *Session) { onEvict(sess) }
	}
	return &Store{
		lru: expirable.NewLRU[string, *Session](size, cb, ttl),
	}
}

// Put stores a session under its id.
func (st *Store) Put(sess *Session) {
	st.lru.Add(sess.ID(), sess)
}

// Get returns the session with the given id.
func (st *Store) Get(sessionID string) (*Session, bool) {
	return st.lru.Get(sessionID)
}

// Remove drops a session, firing the eviction hook.
func (st *Store) Remove(sessionID string) {
	st.lru.Remove(sessionID)
}

// Flush evicts every live session, firing the eviction hook for each.
// Called during shutdown so in-flight reveals still commit.
func (st *Store) Flush() {
	st.lru.Purge()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.lru.Len()
}
