package bridge

import (
	"fmt"
	"sync"
)

// Arena maps small integer handles to native resources of one kind. Ids are
// handed out in increasing order and never reused.
type Arena[T any] struct {
	kind string

	mu      sync.RWMutex
	entries map[int32]*T
	next    int32
}

// NewArena creates an arena pre-populated with seed. Allocation starts at
// first.
func NewArena[T any](kind string, seed map[int32]T, first int32) *Arena[T] {
	entries := make(map[int32]*T, len(seed))
	for id, v := range seed {
		entries[id] = &v
	}
	return &Arena[T]{
		kind:    kind,
		entries: entries,
		next:    first,
	}
}

func (a *Arena[T]) Lookup(id int32) (T, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	v, ok := a.entries[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", a.kind, id, ErrHandleNotFound)
	}
	return *v, nil
}

// Allocate inserts a zero value under a fresh id and returns both.
func (a *Arena[T]) Allocate() (int32, *T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	v := new(T)
	a.entries[id] = v
	return id, v
}

func (a *Arena[T]) Free(id int32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.entries[id]; !ok {
		return fmt.Errorf("%s %d: %w", a.kind, id, ErrHandleNotFound)
	}
	delete(a.entries, id)
	return nil
}

func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
