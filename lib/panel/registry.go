// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"fmt"
	"slices"
)

// Registry holds panel descriptors, keyed name → group. Registration
// order is remembered for deterministic iteration; nothing depends on
// it for correctness.
type Registry struct {
	panels   map[string]map[string]*Panel
	order    []*Panel
	children map[Key][]*Panel
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		panels:   make(map[string]map[string]*Panel),
		children: make(map[Key][]*Panel),
	}
}

// Register validates descriptor and adds it. The returned error is a
// [*ConfigurationError]. A child may be registered before its parent;
// unresolved parents are reported by [Registry.Validate].
func (registry *Registry) Register(descriptor Descriptor) (*Panel, error) {
	key := NewKey(descriptor.Name, descriptor.Group)
	if descriptor.Name == "" {
		return nil, &ConfigurationError{Key: key, Err: ErrMissingName}
	}
	if descriptor.Constructor == nil {
		return nil, &ConfigurationError{Key: key, Err: ErrMissingConstructor}
	}
	if _, exists := registry.Get(key); exists {
		return nil, &ConfigurationError{Key: key, Err: ErrDuplicateRegistration}
	}

	panel := newPanel(descriptor, len(registry.order))
	if parent, isChild := panel.Parent(); isChild {
		if err := registry.checkCycle(key, parent); err != nil {
			return nil, &ConfigurationError{Key: key, Err: err}
		}
	}

	groups, ok := registry.panels[key.Name]
	if !ok {
		groups = make(map[string]*Panel)
		registry.panels[key.Name] = groups
	}
	groups[key.Group] = panel
	registry.order = append(registry.order, panel)
	if parent, isChild := panel.Parent(); isChild {
		registry.children[parent] = append(registry.children[parent], panel)
	}
	return panel, nil
}

// MustRegister is [Registry.Register] for package-initialization code
// where a bad descriptor is a programming error.
func (registry *Registry) MustRegister(descriptor Descriptor) *Panel {
	panel, err := registry.Register(descriptor)
	if err != nil {
		panic(err)
	}
	return panel
}

// checkCycle walks the parent chain upward from parent and fails if it
// reaches key. Chains that end at an unregistered panel are not cycles.
func (registry *Registry) checkCycle(key, parent Key) error {
	current := parent
	for range len(registry.order) + 1 {
		if current == key {
			return fmt.Errorf("%w: %s", ErrParentCycle, registry.describeChain(key, parent))
		}
		panel, ok := registry.Get(current)
		if !ok {
			return nil
		}
		next, isChild := panel.Parent()
		if !isChild {
			return nil
		}
		current = next
	}
	return nil
}

func (registry *Registry) describeChain(key, parent Key) string {
	chain := key.String()
	current := parent
	for current != key {
		chain += " -> " + current.String()
		panel, _ := registry.Get(current)
		current, _ = panel.Parent()
	}
	return chain + " -> " + key.String()
}

// Get returns the panel registered under key.
func (registry *Registry) Get(key Key) (*Panel, bool) {
	panel, ok := registry.panels[key.Name][key.Group]
	return panel, ok
}

// Lookup is [Registry.Get] returning a [*LookupError] for a missing
// panel.
func (registry *Registry) Lookup(key Key) (*Panel, error) {
	panel, ok := registry.Get(key)
	if !ok {
		return nil, &LookupError{Key: key, Err: ErrMissingDescriptor}
	}
	return panel, nil
}

// Each calls fn for every panel in registration order.
func (registry *Registry) Each(fn func(*Panel)) {
	for _, panel := range registry.order {
		fn(panel)
	}
}

// Panels returns every panel in registration order.
func (registry *Registry) Panels() []*Panel {
	return slices.Clone(registry.order)
}

// Children returns the panels whose parent is key, in registration
// order.
func (registry *Registry) Children(key Key) []*Panel {
	return slices.Clone(registry.children[key])
}

// HasChildren reports whether any panel names key as its parent.
func (registry *Registry) HasChildren(key Key) bool {
	return len(registry.children[key]) > 0
}

// ExclusiveMembers returns every panel in exclusive group name.
func (registry *Registry) ExclusiveMembers(name string) []*Panel {
	if name == "" {
		return nil
	}
	var members []*Panel
	for _, panel := range registry.order {
		if panel.exclusiveGroup == name {
			members = append(members, panel)
		}
	}
	return members
}

// AttachFade sets or replaces the fade of a registered panel. It takes
// effect at the next render.
func (registry *Registry) AttachFade(key Key, fade Fade) error {
	panel, err := registry.Lookup(key)
	if err != nil {
		return err
	}
	panel.fade = &fade
	return nil
}

// Validate checks that every child's parent is registered. The error
// is a [*LookupError] wrapping [ErrMissingParent] for the first orphan
// in registration order.
func (registry *Registry) Validate() error {
	for _, panel := range registry.order {
		parent, isChild := panel.Parent()
		if !isChild {
			continue
		}
		if _, ok := registry.Get(parent); !ok {
			return &LookupError{Key: panel.key, Err: fmt.Errorf("%w: %s", ErrMissingParent, parent)}
		}
	}
	return nil
}

// Len returns the number of registered panels.
func (registry *Registry) Len() int {
	return len(registry.order)
}
