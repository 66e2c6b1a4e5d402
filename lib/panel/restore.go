// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

// RestoreCache remembers what each child's visibility was when its
// parent auto-closed it, so reopening the parent restores the children
// to that state instead of forcing them open.
type RestoreCache struct {
	values map[Key]bool

	// closed holds parents whose children were auto-closed and not yet
	// restored.
	closed map[Key]struct{}
}

// NewRestoreCache returns an empty cache.
func NewRestoreCache() *RestoreCache {
	return &RestoreCache{
		values: make(map[Key]bool),
		closed: make(map[Key]struct{}),
	}
}

// Record stores child's visibility.
func (cache *RestoreCache) Record(child Key, visible bool) {
	cache.values[child] = visible
}

// Value returns the recorded visibility of child.
func (cache *RestoreCache) Value(child Key) (visible, ok bool) {
	visible, ok = cache.values[child]
	return visible, ok
}

// Take returns the recorded visibility of child, defaulting to hidden,
// and forgets it.
func (cache *RestoreCache) Take(child Key) bool {
	visible := cache.values[child]
	delete(cache.values, child)
	return visible
}

// MarkClosed records that parent auto-closed its children.
func (cache *RestoreCache) MarkClosed(parent Key) {
	cache.closed[parent] = struct{}{}
}

// Closed reports whether parent auto-closed its children and has not
// reopened since.
func (cache *RestoreCache) Closed(parent Key) bool {
	_, ok := cache.closed[parent]
	return ok
}

// Reopened clears parent's closed mark.
func (cache *RestoreCache) Reopened(parent Key) {
	delete(cache.closed, parent)
}

// Len returns the number of recorded child values.
func (cache *RestoreCache) Len() int {
	return len(cache.values)
}

// reset replaces the cache contents.
func (cache *RestoreCache) reset(values map[Key]bool, closed map[Key]struct{}) {
	cache.values = values
	cache.closed = closed
}
