// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"github.com/bureau-foundation/panelforge/lib/reactive"
)

// Store owns one visibility cell per panel key. All cells share one
// reactive scope so a cascade can be published as a single batch.
type Store struct {
	scope    *reactive.Scope
	cells    map[Key]*reactive.Cell[bool]
	onChange func(Key)
}

// NewStore returns an empty store whose cells belong to scope. A nil
// scope gets a fresh one.
func NewStore(scope *reactive.Scope) *Store {
	if scope == nil {
		scope = reactive.NewScope()
	}
	return &Store{
		scope: scope,
		cells: make(map[Key]*reactive.Cell[bool]),
	}
}

// OnChange installs the hook run after every effective [Store.Set],
// inside the same batch as the write. The forge installs its rule
// engine here.
func (store *Store) OnChange(hook func(Key)) {
	store.onChange = hook
}

// Scope returns the store's batching scope.
func (store *Store) Scope() *reactive.Scope {
	return store.scope
}

// Ensure returns the cell for key, creating it with initial if absent.
// created reports whether this call made the cell.
func (store *Store) Ensure(key Key, initial bool) (cell *reactive.Cell[bool], created bool) {
	if existing, ok := store.cells[key]; ok {
		return existing, false
	}
	cell = reactive.NewCell(store.scope, initial)
	store.cells[key] = cell
	return cell, true
}

// Has reports whether key has a cell.
func (store *Store) Has(key Key) bool {
	_, ok := store.cells[key]
	return ok
}

// Cell returns the cell for key, or a [*LookupError] wrapping
// [ErrMissingSource].
func (store *Store) Cell(key Key) (*reactive.Cell[bool], error) {
	cell, ok := store.cells[key]
	if !ok {
		return nil, &LookupError{Key: key, Err: ErrMissingSource}
	}
	return cell, nil
}

// Visible returns the current visibility of key. Keys without a cell
// are hidden.
func (store *Store) Visible(key Key) bool {
	cell, ok := store.cells[key]
	return ok && cell.Get()
}

// Set writes value to key's cell and runs the change hook, all inside
// one batch: subscribers see the settled cascade once Set returns.
// Writing the current value does nothing and reports false.
func (store *Store) Set(key Key, value bool) (bool, error) {
	cell, err := store.Cell(key)
	if err != nil {
		return false, err
	}
	if cell.Get() == value {
		return false, nil
	}
	store.scope.Batch(func() {
		cell.Set(value)
		if store.onChange != nil {
			store.onChange(key)
		}
	})
	return true, nil
}

// Bind forwards every change of external to [Store.Set] for key, for
// the lifetime of the store. The current value of external is applied
// immediately.
func (store *Store) Bind(key Key, external *reactive.Cell[bool]) error {
	if _, err := store.Cell(key); err != nil {
		return err
	}
	external.Subscribe(func(value bool) {
		// The cell exists; Set cannot fail.
		_, _ = store.Set(key, value)
	})
	_, err := store.Set(key, external.Get())
	return err
}

// write sets key's cell without running the change hook, creating the
// cell if needed. Used to reinstate an already-settled snapshot.
func (store *Store) write(key Key, value bool) {
	cell, created := store.Ensure(key, value)
	if !created {
		cell.Set(value)
	}
}
