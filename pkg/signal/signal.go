// Package signal provides a minimal observable value. Stores expose their
// state as Values so other components can watch for changes without polling.
package signal

import "sync"

// Value holds a single value of type T and notifies subscribed observers on
// every Set. Notification is synchronous and runs on the caller's goroutine.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	observers map[int]func(T)
	nextID    int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current:   initial,
		observers: make(map[int]func(T)),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and notifies every observer with the new
// value. Observers always see the value they were notified for, even when
// another Set lands concurrently.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.current = value
	observers := make([]func(T), 0, len(v.observers))
	for _, fn := range v.observers {
		observers = append(observers, fn)
	}
	v.mu.Unlock()

	for _, fn := range observers {
		fn(value)
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.observers, id)
		v.mu.Unlock()
	}
}
