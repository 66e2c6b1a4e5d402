// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"log/slog"
	"maps"

	"github.com/bureau-foundation/panelforge/lib/clock"
	"github.com/bureau-foundation/panelforge/lib/node"
	"github.com/bureau-foundation/panelforge/lib/reactive"
)

// Forge is the runtime for one registry: visibility cells, the rule
// engine, the restore cache, and the render records of the last pass.
type Forge struct {
	registry *Registry
	scope    *reactive.Scope
	store    *Store
	cache    *RestoreCache
	engine   *Engine
	clock    clock.Clock
	logger   *slog.Logger

	loaded map[Key]*RenderNode
}

// Option configures a [Forge].
type Option func(*Forge)

// WithLogger sets the logger for rule cascades and snapshot restores.
// The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(forge *Forge) { forge.logger = logger }
}

// WithClock sets the clock fade springs read. Tests pass a
// [clock.FakeClock].
func WithClock(source clock.Clock) Option {
	return func(forge *Forge) { forge.clock = source }
}

// WithScope places the forge's cells in an existing reactive scope, so
// callers can batch their own cells together with panel visibility.
func WithScope(scope *reactive.Scope) Option {
	return func(forge *Forge) { forge.scope = scope }
}

// New creates a forge over registry, seeds a cell for every registered
// panel from its initial visibility, and settles the rules once. When
// initial visibility conflicts (two visible members of one exclusive
// group), the panel registered first wins.
func New(registry *Registry, options ...Option) *Forge {
	forge := &Forge{
		registry: registry,
		clock:    clock.Real(),
		logger:   slog.New(slog.DiscardHandler),
		loaded:   make(map[Key]*RenderNode),
	}
	for _, option := range options {
		option(forge)
	}
	if forge.scope == nil {
		forge.scope = reactive.NewScope()
	}

	forge.store = NewStore(forge.scope)
	forge.cache = NewRestoreCache()
	forge.engine = NewEngine(registry, forge.store, forge.cache, forge.logger)
	forge.store.OnChange(forge.engine.Check)

	var keys []Key
	registry.Each(func(panel *Panel) {
		forge.store.Ensure(panel.Key(), panel.InitialVisible())
		keys = append(keys, panel.Key())
	})
	forge.settle(keys)
	return forge
}

func (forge *Forge) settle(keys []Key) {
	forge.engine.Settle(keys)
}

// ensureRegistered creates cells for panels registered after the forge
// was built and settles them. Returns the keys it created.
func (forge *Forge) ensureRegistered() []Key {
	var created []Key
	forge.registry.Each(func(panel *Panel) {
		if _, isNew := forge.store.Ensure(panel.Key(), panel.InitialVisible()); isNew {
			created = append(created, panel.Key())
		}
	})
	forge.settle(created)
	return created
}

// Registry returns the registry the forge was built over.
func (forge *Forge) Registry() *Registry { return forge.registry }

// Scope returns the reactive scope holding the visibility cells.
func (forge *Forge) Scope() *reactive.Scope { return forge.scope }

// Engine returns the rule engine.
func (forge *Forge) Engine() *Engine { return forge.engine }

// set resolves key and writes through the store.
func (forge *Forge) set(key Key, value bool) error {
	if _, err := forge.registry.Lookup(key); err != nil {
		return err
	}
	_, err := forge.store.Set(key, value)
	return err
}

// Open makes key visible and settles the cascade.
func (forge *Forge) Open(key Key) error {
	return forge.set(key, true)
}

// Close hides key and settles the cascade.
func (forge *Forge) Close(key Key) error {
	return forge.set(key, false)
}

// Toggle flips key's visibility and settles the cascade.
func (forge *Forge) Toggle(key Key) error {
	cell, err := forge.Cell(key)
	if err != nil {
		return err
	}
	return forge.set(key, !cell.Get())
}

// Bind drives key's visibility from external for the life of the
// forge. The current value of external is applied immediately.
func (forge *Forge) Bind(key Key, external *reactive.Cell[bool]) error {
	if _, err := forge.registry.Lookup(key); err != nil {
		return err
	}
	return forge.store.Bind(key, external)
}

// Visible reports key's current visibility. Unknown keys are hidden.
func (forge *Forge) Visible(key Key) bool {
	return forge.store.Visible(key)
}

// Cell returns key's visibility cell for read and subscribe. Writes
// must go through [Forge.Open], [Forge.Close], or [Forge.Toggle] so the
// rules run.
func (forge *Forge) Cell(key Key) (*reactive.Cell[bool], error) {
	if _, err := forge.registry.Lookup(key); err != nil {
		return nil, err
	}
	return forge.store.Cell(key)
}

// Subscribe calls fn with key's settled visibility after every change.
func (forge *Forge) Subscribe(key Key, fn func(visible bool)) (cancel func(), err error) {
	cell, err := forge.Cell(key)
	if err != nil {
		return nil, err
	}
	return cell.Subscribe(fn), nil
}

// Render materializes the requested panels and returns the root
// containers to mount, in registration order. Panels seen for the
// first time get a cell seeded from their initial visibility, and
// their rules are settled before Render returns.
func (forge *Forge) Render(request RenderRequest) ([]*node.Node, error) {
	roots, created, err := forge.load(request)
	forge.settle(created)
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// StoryConfig carries rendering collaborators for [Forge.Story].
type StoryConfig struct {
	Scale func(float64) int
}

// StoryRequest renders a selection into an isolated preview container.
type StoryRequest struct {
	Props   any
	Target  *node.Node
	Renders Selection
	Config  StoryConfig
}

// Story renders the selection into a single container, appended to
// Target when set. Unlike [Forge.Render] it first brings every panel
// registered since the forge was built under the rules, so a preview
// harness can register, story, and interact in any order.
func (forge *Forge) Story(request StoryRequest) (*node.Node, error) {
	forge.ensureRegistered()
	roots, err := forge.Render(RenderRequest{
		Props:   request.Props,
		Renders: request.Renders,
		Scale:   request.Config.Scale,
	})
	if err != nil {
		return nil, err
	}
	story := node.New(node.Props{Name: "story"}, roots...)
	if request.Target != nil {
		request.Target.Append(story)
	}
	return story, nil
}

// Loaded returns the render records of every panel materialized so
// far, keyed by panel. Later passes replace earlier records.
func (forge *Forge) Loaded() map[Key]*RenderNode {
	return maps.Clone(forge.loaded)
}

// Record returns the latest render record for key.
func (forge *Forge) Record(key Key) (*RenderNode, bool) {
	record, ok := forge.loaded[key]
	return record, ok
}

// Animating reports whether any loaded fade has not yet settled.
func (forge *Forge) Animating() bool {
	for _, record := range forge.loaded {
		if record.Transition != nil && !record.Transition.Settled() {
			return true
		}
	}
	return false
}
