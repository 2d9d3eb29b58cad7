package lock

import (
	"sync"
	"sync/atomic"
)

// Registry hands out one RWMutex per user id. Handles are created on first
// use and kept for the registry's lifetime; nothing is evicted, so memory
// grows with the number of distinct users seen.
type Registry struct {
	locks sync.Map // map[int64]*sync.RWMutex
	size  atomic.Int64
}

func NewRegistry() *Registry { return &Registry{} }

// Get returns the mutex for userID. Concurrent first calls for the same id
// all receive the same handle.
func (r *Registry) Get(userID int64) *sync.RWMutex {
	if v, ok := r.locks.Load(userID); ok {
		return v.(*sync.RWMutex)
	}
	v, loaded := r.locks.LoadOrStore(userID, &sync.RWMutex{})
	if !loaded {
		r.size.Add(1)
	}
	return v.(*sync.RWMutex)
}

// Len reports how many handles have been created.
func (r *Registry) Len() int64 { return r.size.Load() }
