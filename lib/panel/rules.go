// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"log/slog"
)

// Engine keeps derived visibility consistent. [Engine.Check] runs after
// every effective write to a panel's cell and may write other cells,
// which run their own checks recursively. Two guard sets bound the
// recursion:
//
//   - processing: keys whose check is on the stack. A check that
//     reaches a key already being processed returns immediately.
//   - closing: parents currently force-closing their children. A child
//     check does not record its visibility while its parent is closing,
//     so the cache keeps the pre-close value.
//
// Both guards are released by defer and are empty whenever no check is
// running.
type Engine struct {
	registry *Registry
	store    *Store
	cache    *RestoreCache
	logger   *slog.Logger

	processing map[Key]struct{}
	closing    map[Key]struct{}

	// settled collects the keys checked during a [Engine.Settle] pass.
	settled map[Key]struct{}
}

// NewEngine returns an engine over the given registry, store, and
// cache.
func NewEngine(registry *Registry, store *Store, cache *RestoreCache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		registry:   registry,
		store:      store,
		cache:      cache,
		logger:     logger,
		processing: make(map[Key]struct{}),
		closing:    make(map[Key]struct{}),
	}
}

// acquire adds key to guard unless present. The caller must call
// release exactly once when acquired is true.
func acquire(guard map[Key]struct{}, key Key) (release func(), acquired bool) {
	if _, held := guard[key]; held {
		return nil, false
	}
	guard[key] = struct{}{}
	return func() { delete(guard, key) }, true
}

// Check applies the parent rule and then the exclusive-group rule to
// key. Unregistered keys and keys already being checked are ignored.
func (engine *Engine) Check(key Key) {
	panel, ok := engine.registry.Get(key)
	if !ok {
		return
	}
	release, acquired := acquire(engine.processing, key)
	if !acquired {
		engine.logger.Debug("rule check already in progress", "panel", key.String())
		return
	}
	defer release()
	if engine.settled != nil {
		engine.settled[key] = struct{}{}
	}

	engine.parentRule(panel)
	engine.exclusiveRule(panel)
}

// Settle checks each of keys in one batch. A key already checked as
// part of an earlier key's cascade is not checked again: its rules ran
// against the value the cascade wrote, and a second pass would record
// a force-closed child as hidden in the restore cache.
func (engine *Engine) Settle(keys []Key) {
	if len(keys) == 0 {
		return
	}
	if engine.settled == nil {
		engine.settled = make(map[Key]struct{})
		defer func() { engine.settled = nil }()
	}

	engine.store.Scope().Batch(func() {
		for _, key := range keys {
			if _, done := engine.settled[key]; done {
				continue
			}
			engine.Check(key)
		}
	})
}

// Processing reports whether key's check is on the stack.
func (engine *Engine) Processing(key Key) bool {
	_, held := engine.processing[key]
	return held
}

// Closing reports whether key is force-closing its children.
func (engine *Engine) Closing(key Key) bool {
	_, held := engine.closing[key]
	return held
}

// Busy reports whether any guard is held.
func (engine *Engine) Busy() bool {
	return len(engine.processing) > 0 || len(engine.closing) > 0
}

func (engine *Engine) parentRule(panel *Panel) {
	key := panel.Key()

	if parent, isChild := panel.Parent(); isChild {
		if !engine.store.Visible(parent) && !engine.Closing(parent) {
			engine.cache.Record(key, engine.store.Visible(key))
		}
	}

	if !engine.registry.HasChildren(key) {
		return
	}
	visible := engine.store.Visible(key)
	switch {
	case !visible && !engine.cache.Closed(key):
		engine.closeChildren(key)
	case visible && engine.cache.Closed(key):
		engine.restoreChildren(key)
	}
}

func (engine *Engine) closeChildren(parent Key) {
	children := engine.registry.Children(parent)
	for _, child := range children {
		engine.cache.Record(child.Key(), engine.store.Visible(child.Key()))
	}
	engine.cache.MarkClosed(parent)

	release, acquired := acquire(engine.closing, parent)
	if !acquired {
		return
	}
	defer release()

	engine.logger.Debug("closing children", "panel", parent.String(), "children", len(children))
	engine.store.Scope().Batch(func() {
		for _, child := range children {
			engine.set(child.Key(), false)
		}
	})
}

func (engine *Engine) restoreChildren(parent Key) {
	engine.cache.Reopened(parent)
	children := engine.registry.Children(parent)
	engine.logger.Debug("restoring children", "panel", parent.String(), "children", len(children))
	engine.store.Scope().Batch(func() {
		for _, child := range children {
			engine.set(child.Key(), engine.cache.Take(child.Key()))
		}
	})
}

func (engine *Engine) exclusiveRule(panel *Panel) {
	group := panel.ExclusiveGroup()
	if group == "" {
		return
	}
	key := panel.Key()
	for _, member := range engine.registry.ExclusiveMembers(group) {
		// An earlier close in this loop may have cascaded back and
		// hidden this panel; then there is nothing left to enforce.
		if !engine.store.Visible(key) {
			return
		}
		other := member.Key()
		if other == key || !engine.store.Visible(other) {
			continue
		}
		engine.logger.Debug("closing exclusive sibling",
			"panel", key.String(),
			"sibling", other.String(),
			"exclusive_group", group,
		)
		engine.set(other, false)
	}
}

// set writes through the store so the target's own rules run. Children
// whose cell does not exist yet have nothing to update.
func (engine *Engine) set(key Key, value bool) {
	if _, err := engine.store.Set(key, value); err != nil {
		engine.logger.Debug("skipping panel without a cell", "panel", key.String(), "error", err)
	}
}
