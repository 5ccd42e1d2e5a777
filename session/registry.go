package session

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Registry keeps one Store per browser session id. It is bounded: the
// least recently used stores are dropped and rebuilt from their
// credential on the next request.
type Registry struct {
	mu       sync.Mutex
	cache    *lru.Cache
	newStore func(credential string) *Store
}

func NewRegistry(size int, newStore func(credential string) *Store) (*Registry, error) {
	cache, err := lru.NewWithEvict(size, func(_, value interface{}) {
		value.(*Store).Close()
	})
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	return &Registry{cache: cache, newStore: newStore}, nil
}

// Get returns the store for sid. A cached store created from a different
// credential is replaced, so a login elsewhere in the same browser is
// picked up.
func (r *Registry) Get(sid, credential string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(sid); ok {
		st := v.(*Store)
		if st.Credential() == credential {
			return st
		}
		r.cache.Remove(sid)
	}

	st := r.newStore(credential)
	r.cache.Add(sid, st)
	return st
}

// Reset replaces the store for sid with a fresh one for credential.
func (r *Registry) Reset(sid, credential string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Remove(sid)
	st := r.newStore(credential)
	r.cache.Add(sid, st)
	return st
}

func (r *Registry) Remove(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(sid)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
