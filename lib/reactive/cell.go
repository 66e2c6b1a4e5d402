// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

// Cell is a single observable value. Subscribers are called
// synchronously with the new value whenever it changes.
type Cell[T comparable] struct {
	scope *Scope
	value T

	// notified is the last value delivered to subscribers. A batch that
	// changes a cell and then changes it back produces no notification.
	notified T
	queued   bool

	subscribers []*subscription[T]
}

type subscription[T comparable] struct {
	callback  func(T)
	cancelled bool
}

// NewCell creates a cell holding initial. If scope is nil the cell gets
// a private scope, which makes it usable standalone but excludes it
// from any shared batch.
func NewCell[T comparable](scope *Scope, initial T) *Cell[T] {
	if scope == nil {
		scope = NewScope()
	}
	return &Cell[T]{scope: scope, value: initial, notified: initial}
}

// Get returns the current value. Inside a batch this is the most
// recently written value, even if subscribers have not been told yet.
func (cell *Cell[T]) Get() T {
	return cell.value
}

// Set writes value and reports whether it differed from the current
// value. Equal writes do nothing. Outside a batch, subscribers run
// before Set returns; inside a batch they run when the batch ends.
func (cell *Cell[T]) Set(value T) bool {
	if value == cell.value {
		return false
	}
	cell.value = value
	if cell.scope.Batching() {
		if !cell.queued {
			cell.queued = true
			cell.scope.enqueue(cell)
		}
		return true
	}
	cell.notified = value
	cell.deliver(value)
	return true
}

// Subscribe registers callback for future changes. The callback is not
// invoked for the current value. The returned function cancels the
// subscription; it is safe to call more than once and from inside a
// callback.
func (cell *Cell[T]) Subscribe(callback func(T)) (cancel func()) {
	entry := &subscription[T]{callback: callback}
	cell.subscribers = append(cell.subscribers, entry)
	return func() {
		if entry.cancelled {
			return
		}
		entry.cancelled = true
		for index, candidate := range cell.subscribers {
			if candidate == entry {
				cell.subscribers = append(cell.subscribers[:index:index], cell.subscribers[index+1:]...)
				break
			}
		}
	}
}

// Scope returns the batching scope this cell belongs to.
func (cell *Cell[T]) Scope() *Scope {
	return cell.scope
}

func (cell *Cell[T]) flush() {
	cell.queued = false
	if cell.value == cell.notified {
		return
	}
	cell.notified = cell.value
	cell.deliver(cell.value)
}

// deliver calls every live subscriber. Iterates over a snapshot so
// subscribers may subscribe or cancel during delivery.
func (cell *Cell[T]) deliver(value T) {
	snapshot := make([]*subscription[T], len(cell.subscribers))
	copy(snapshot, cell.subscribers)
	for _, entry := range snapshot {
		if entry.cancelled {
			continue
		}
		entry.callback(value)
	}
}
