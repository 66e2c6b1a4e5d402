// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reactive

// notifier is implemented by cells so the scope can flush them without
// knowing their value type.
type notifier interface {
	flush()
}

// Scope is a batching context shared by a set of cells. The zero value
// is not usable; call [NewScope].
type Scope struct {
	depth   int
	pending []notifier
}

// NewScope creates an empty scope with no batch in progress.
func NewScope() *Scope {
	return &Scope{}
}

// Batch runs fn with notifications deferred. Cells written inside fn
// (directly or by subscribers of other cells) hold their notification
// until the outermost Batch call returns; each changed cell then
// notifies its subscribers once with its final value. Nested batches
// join the outer batch.
//
// Notifications are flushed even if fn panics, so a panic never leaves
// the scope stuck in batching mode.
func (scope *Scope) Batch(fn func()) {
	scope.depth++
	defer func() {
		scope.depth--
		if scope.depth == 0 {
			scope.flush()
		}
	}()
	fn()
}

// Batching reports whether a batch is in progress.
func (scope *Scope) Batching() bool {
	return scope.depth > 0
}

// enqueue queues a cell for notification at the end of the current
// batch. A cell is queued at most once per batch.
func (scope *Scope) enqueue(cell notifier) {
	scope.pending = append(scope.pending, cell)
}

// flush delivers pending notifications in first-written order.
// Subscribers may write other cells while the flush runs; those writes
// happen outside any batch and notify immediately, unless the
// subscriber opens its own batch.
func (scope *Scope) flush() {
	for len(scope.pending) > 0 {
		next := scope.pending[0]
		scope.pending = scope.pending[1:]
		next.flush()
	}
	scope.pending = nil
}
