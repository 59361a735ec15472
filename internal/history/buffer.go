// Package history keeps the most recent analysis records in a bounded in-memory ring.
package history

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultCapacity is used when a non-positive capacity is configured.
const DefaultCapacity = 5

// Policy decides what happens when an append hits a full buffer.
type Policy string

const (
	// EvictOldest drops the oldest record to make room for the new one.
	EvictOldest Policy = "oldest"
	// DropNewest keeps the buffer as is and discards the incoming record.
	DropNewest Policy = "newest"
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", EvictOldest:
		return EvictOldest, nil
	case DropNewest:
		return DropNewest, nil
	default:
		return "", fmt.Errorf("unknown history eviction policy %q", raw)
	}
}

// Buffer is a fixed-capacity ring of records, oldest first. Safe for concurrent use.
type Buffer[T any] struct {
	mu     sync.RWMutex
	items  []T
	head   int
	size   int
	policy Policy
}

// New returns an empty buffer.
func New[T any](capacity int, policy Policy) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if policy == "" {
		policy = EvictOldest
	}
	return &Buffer[T]{
		items:  make([]T, capacity),
		policy: policy,
	}
}

// Append adds item at the end. stored reports whether item is now in the buffer,
// evicted whether an older record was dropped to make room.
func (b *Buffer[T]) Append(item T) (stored, evicted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := len(b.items)
	if b.size < capacity {
		b.items[(b.head+b.size)%capacity] = item
		b.size++
		return true, false
	}
	if b.policy == DropNewest {
		return false, false
	}
	b.items[b.head] = item
	b.head = (b.head + 1) % capacity
	return true, true
}

// Snapshot returns a copy of the contents, oldest first. Never nil.
func (b *Buffer[T]) Snapshot() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Len returns the number of stored records.
func (b *Buffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the configured capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

// Policy returns the eviction policy.
func (b *Buffer[T]) Policy() Policy {
	return b.policy
}
