// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "time"

// FlashDuration is how long a row stays highlighted after its panel
// changes visibility. Intensity falls linearly from 1 to 0.
const FlashDuration = 2 * time.Second

// FlashKind selects the highlight color.
type FlashKind int

const (
	// FlashOpened marks a panel that became visible.
	FlashOpened FlashKind = iota
	// FlashClosed marks a panel that became hidden.
	FlashClosed
)

type flash struct {
	lit  time.Time
	kind FlashKind
}

// FlashTracker remembers when list rows last changed so the viewer can
// highlight panels flipped by a cascade or an exclusive group, not
// only the one the user acted on.
type FlashTracker struct {
	flashes map[string]flash
}

// NewFlashTracker returns an empty tracker.
func NewFlashTracker() *FlashTracker {
	return &FlashTracker{flashes: make(map[string]flash)}
}

// Light starts (or restarts) the highlight for id.
func (tracker *FlashTracker) Light(id string, kind FlashKind, now time.Time) {
	tracker.flashes[id] = flash{lit: now, kind: kind}
}

// Intensity returns 1 at the moment id was lit, falling to 0 after
// [FlashDuration]. Unknown ids are 0.
func (tracker *FlashTracker) Intensity(id string, now time.Time) float64 {
	entry, exists := tracker.flashes[id]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.lit)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= FlashDuration {
		return 0
	}
	return 1 - float64(elapsed)/float64(FlashDuration)
}

// Kind returns the kind id was last lit with.
func (tracker *FlashTracker) Kind(id string) FlashKind {
	return tracker.flashes[id].kind
}

// Active reports whether any row is still lit, and forgets the ones
// that have gone dark.
func (tracker *FlashTracker) Active(now time.Time) bool {
	active := false
	for id, entry := range tracker.flashes {
		if now.Sub(entry.lit) < FlashDuration {
			active = true
			continue
		}
		delete(tracker.flashes, id)
	}
	return active
}
