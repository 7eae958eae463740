package observable

import (
	"fmt"
	"iter"
)

// Kind identifies the mutation carried by an Event.
type Kind int

const (
	// Insert reports a value inserted at Index.
	Insert Kind = iota + 1
	// Delete reports the value removed from Index.
	Delete
	// Update reports the value at Index was changed in place.
	Update
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single mutation notification.
type Event[T any] struct {
	Kind  Kind
	Index int
	Value T
}

// Observer receives events from an Array.
type Observer[T any] func(Event[T])

type subscription[T any] struct {
	id       uint64
	observer Observer[T]
}

// Array is an ordered sequence whose mutations are broadcast to observers.
// It is not safe for concurrent mutation; callers serialize writes.
type Array[T any] struct {
	items  []T
	subs   []subscription[T]
	nextID uint64
}

// NewArray returns an Array holding a copy of items.
func NewArray[T any](items []T) *Array[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &Array[T]{items: cp}
}

// Len returns the number of values.
func (a *Array[T]) Len() int {
	return len(a.items)
}

// At returns the value at index i. It panics if i is out of range.
func (a *Array[T]) At(i int) T {
	return a.items[i]
}

// Values returns a copy of the current values.
func (a *Array[T]) Values() []T {
	cp := make([]T, len(a.items))
	copy(cp, a.items)
	return cp
}

// All iterates over index/value pairs of the current values.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Insert places v at index i, shifting later values up.
func (a *Array[T]) Insert(i int, v T) {
	if i < 0 || i > len(a.items) {
		panic(fmt.Sprintf("observable: insert index %d out of range [0,%d]", i, len(a.items)))
	}
	var zero T
	a.items = append(a.items, zero)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = v
	a.emit(Event[T]{Kind: Insert, Index: i, Value: v})
}

// Remove deletes and returns the value at index i.
func (a *Array[T]) Remove(i int) T {
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("observable: remove index %d out of range [0,%d)", i, len(a.items)))
	}
	v := a.items[i]
	copy(a.items[i:], a.items[i+1:])
	var zero T
	a.items[len(a.items)-1] = zero
	a.items = a.items[:len(a.items)-1]
	a.emit(Event[T]{Kind: Delete, Index: i, Value: v})
	return v
}

// Update stores v at index i and notifies observers. Storing the value that is
// already present is how callers signal an in-place content change.
func (a *Array[T]) Update(i int, v T) {
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("observable: update index %d out of range [0,%d)", i, len(a.items)))
	}
	a.items[i] = v
	a.emit(Event[T]{Kind: Update, Index: i, Value: v})
}

// Subscribe registers o and returns a function that removes it. The returned
// function is idempotent.
func (a *Array[T]) Subscribe(o Observer[T]) (cancel func()) {
	a.nextID++
	id := a.nextID
	a.subs = append(a.subs, subscription[T]{id: id, observer: o})
	return func() {
		for i, s := range a.subs {
			if s.id == id {
				a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

// emit walks a snapshot of the subscriber list so observers may subscribe or
// cancel from inside a callback.
func (a *Array[T]) emit(ev Event[T]) {
	subs := a.subs
	for _, s := range subs {
		s.observer(ev)
	}
}
