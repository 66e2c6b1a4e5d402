// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"fmt"

	"github.com/bureau-foundation/panelforge/lib/codec"
)

// PanelState is one panel's entry in a [Snapshot].
type PanelState struct {
	Name    string `cbor:"name"`
	Group   string `cbor:"group"`
	Visible bool   `cbor:"visible"`

	// Cached is the restore-cache value, present when the panel is a
	// child whose visibility is being remembered.
	Cached *bool `cbor:"cached,omitempty"`

	// Closed marks a parent whose children were auto-closed and are
	// waiting for it to reopen.
	Closed bool `cbor:"closed,omitempty"`
}

// Key returns the state's panel key.
func (state PanelState) Key() Key {
	return NewKey(state.Name, state.Group)
}

// Snapshot is the settled visibility state of a forge.
type Snapshot struct {
	// Layout identifies the panel definitions the snapshot was taken
	// against. The forge does not interpret it; callers use it to
	// discard snapshots of a different layout.
	Layout []byte `cbor:"layout,omitempty"`

	Panels []PanelState `cbor:"panels"`
}

// Snapshot captures every cell and the restore cache, in registration
// order.
func (forge *Forge) Snapshot() Snapshot {
	var snapshot Snapshot
	forge.registry.Each(func(panel *Panel) {
		key := panel.Key()
		if !forge.store.Has(key) {
			return
		}
		state := PanelState{
			Name:    key.Name,
			Group:   key.Group,
			Visible: forge.store.Visible(key),
			Closed:  forge.cache.Closed(key),
		}
		if cached, ok := forge.cache.Value(key); ok {
			state.Cached = &cached
		}
		snapshot.Panels = append(snapshot.Panels, state)
	})
	return snapshot
}

// Restore reinstates a snapshot. The snapshot is already settled, so
// cells are written directly without running rules; subscribers are
// notified once, at the end. Panels no longer registered are skipped.
// The restore cache is replaced by the snapshot's.
func (forge *Forge) Restore(snapshot Snapshot) {
	values := make(map[Key]bool)
	closed := make(map[Key]struct{})
	forge.scope.Batch(func() {
		for _, state := range snapshot.Panels {
			key := state.Key()
			if _, ok := forge.registry.Get(key); !ok {
				forge.logger.Warn("skipping snapshot entry for unregistered panel", "panel", key.String())
				continue
			}
			forge.store.write(key, state.Visible)
			if state.Cached != nil {
				values[key] = *state.Cached
			}
			if state.Closed {
				closed[key] = struct{}{}
			}
		}
		forge.cache.reset(values, closed)
	})
}

// EncodeSnapshot serializes snapshot as deterministic CBOR.
func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	data, err := codec.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding panel snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot written by [EncodeSnapshot].
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decoding panel snapshot: %w", err)
	}
	return snapshot, nil
}
