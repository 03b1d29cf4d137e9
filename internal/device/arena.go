package device

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrArenaExhausted = errors.New("memory arena exhausted")
	ErrInvalidSize    = errors.New("allocation size must not be negative")
)

// Arena is a pass-through byte allocator with capacity accounting.
// Every allocation is serviced directly (no pooling, no reuse); the arena
// only tracks how many bytes are outstanding against its capacity.
type Arena struct {
	name     string
	capacity int64 // 0 = unbounded

	mu   sync.Mutex
	used int64
}

// NewArena creates an arena with the given byte capacity (0 = unbounded).
func NewArena(name string, capacity int64) *Arena {
	return &Arena{name: name, capacity: capacity}
}

// Alloc reserves and returns a zeroed buffer of exactly size bytes.
func (a *Arena) Alloc(size int64) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%s arena: %w: %d", a.name, ErrInvalidSize, size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.capacity > 0 && a.used+size > a.capacity {
		return nil, fmt.Errorf("%s arena: %w: need %d, available %d",
			a.name, ErrArenaExhausted, size, a.capacity-a.used)
	}

	a.used += size
	return make([]byte, size), nil
}

// Free returns size bytes to the arena. It must be called with the exact
// size of a prior Alloc.
func (a *Arena) Free(size int64) {
	if size < 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.used -= size
	if a.used < 0 {
		a.used = 0
	}
}

// Used returns the number of bytes currently allocated.
func (a *Arena) Used() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}

// Capacity returns the arena capacity in bytes (0 = unbounded).
func (a *Arena) Capacity() int64 {
	return a.capacity
}

// Name returns the arena name used in error messages.
func (a *Arena) Name() string {
	return a.name
}
