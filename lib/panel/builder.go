// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"fmt"
	"slices"

	"github.com/bureau-foundation/panelforge/lib/node"
	"github.com/bureau-foundation/panelforge/lib/transition"
)

// RenderNode is what a render pass produced for one panel.
type RenderNode struct {
	Panel *Panel

	// Instance is the panel's own rendered subtree.
	Instance *node.Node

	// Container wraps the instance (or anchor) and the containers of
	// the panel's children. This is what gets mounted.
	Container *node.Node

	// Anchor is the stripped copy of the parent's chrome hosting an
	// anchored child's instance. Nil for other panels.
	Anchor *node.Node

	// Transition drives the container's transparency for panels with a
	// fade. Nil otherwise.
	Transition *transition.Spring
}

// Selection filters the root panels a render pass starts from. An
// empty dimension matches everything.
type Selection struct {
	Names  []string
	Groups []string
}

// Select returns the selection of exactly key.
func Select(key Key) Selection {
	return Selection{Names: []string{key.Name}, Groups: []string{key.Group}}
}

// Matches reports whether key is selected.
func (selection Selection) Matches(key Key) bool {
	if len(selection.Names) > 0 && !slices.Contains(selection.Names, key.Name) {
		return false
	}
	if len(selection.Groups) > 0 && !slices.Contains(selection.Groups, key.Group) {
		return false
	}
	return true
}

// RenderRequest selects what a render pass materializes.
type RenderRequest struct {
	// Props is passed to every constructor as [Context.Props].
	Props any

	// Renders selects the root panels. Children of a selected root are
	// always included.
	Renders Selection

	// Scale is passed to every constructor as [Context.Scale].
	Scale func(float64) int
}

// renderPass is the state of one Load call.
type renderPass struct {
	forge   *Forge
	context *Context
	visited map[Key]bool
	created []Key
}

// Load materializes the selected root panels and, depth first, all of
// their descendants. Every materialized panel is recorded in the
// forge's loaded map, replacing the previous record; only root
// containers are returned, in registration order. Load also returns
// the keys whose cells it had to create.
func (forge *Forge) load(request RenderRequest) ([]*node.Node, []Key, error) {
	if err := forge.registry.Validate(); err != nil {
		return nil, nil, err
	}

	start := forge.clock.Now()
	pass := &renderPass{
		forge: forge,
		context: &Context{
			Forge: forge,
			Props: request.Props,
			Scale: request.Scale,
		},
		visited: make(map[Key]bool),
	}

	var roots []*node.Node
	for _, panel := range forge.registry.Panels() {
		if panel.IsChild() || !request.Renders.Matches(panel.Key()) {
			continue
		}
		record, err := pass.render(panel)
		if err != nil {
			return nil, pass.created, err
		}
		roots = append(roots, record.Container)
	}
	forge.logger.Debug("render pass complete",
		"panels", len(pass.visited),
		"roots", len(roots),
		"created", len(pass.created),
		"elapsed", forge.clock.Now().Sub(start),
	)
	return roots, pass.created, nil
}

// render materializes panel after its children, at most once per pass.
func (pass *renderPass) render(panel *Panel) (*RenderNode, error) {
	key := panel.Key()
	if pass.visited[key] {
		return pass.forge.loaded[key], nil
	}
	pass.visited[key] = true
	start := pass.forge.clock.Now()

	var childContainers []*node.Node
	for _, child := range pass.forge.registry.Children(key) {
		record, err := pass.render(child)
		if err != nil {
			return nil, err
		}
		childContainers = append(childContainers, record.Container)
	}

	record, err := pass.materialize(panel)
	if err != nil {
		return nil, err
	}
	record.Container.Append(childContainers...)
	pass.forge.loaded[key] = record
	pass.forge.logger.Debug("rendered panel",
		"panel", key.String(),
		"children", len(childContainers),
		"anchored", record.Anchor != nil,
		"elapsed", pass.forge.clock.Now().Sub(start),
	)
	return record, nil
}

func (pass *renderPass) materialize(panel *Panel) (*RenderNode, error) {
	key := panel.Key()
	cell, created := pass.forge.store.Ensure(key, panel.InitialVisible())
	if created {
		pass.created = append(pass.created, key)
	}

	record := &RenderNode{
		Panel:    panel,
		Instance: panel.instantiate(pass.context),
	}
	host := record.Instance
	props := node.Props{
		Name:   key.String(),
		ZIndex: panel.ZIndex(),
	}

	if parentKey, isChild := panel.Parent(); isChild && panel.Anchor() {
		parent, ok := pass.forge.registry.Get(parentKey)
		if !ok {
			return nil, &LookupError{Key: key, Err: fmt.Errorf("%w: %s", ErrMissingParent, parentKey)}
		}
		anchor := parent.instantiate(pass.context)
		anchor.Strip()
		anchor.Name = key.String() + "/anchor"
		anchor.Append(record.Instance)
		record.Anchor = anchor
		host = anchor

		props.Overlay = true
		props.OffsetX = anchor.OffsetX
		props.OffsetY = anchor.OffsetY
	}

	if fade, ok := panel.Fade(); ok {
		spring := transition.NewSpring(pass.forge.clock, fade.Period, fade.DampingRatio, func() float64 {
			if cell.Get() {
				return 0
			}
			return 1
		})
		record.Transition = spring
		props.Transparency = func() float64 {
			return min(1, max(0, spring.Value()))
		}
	} else {
		props.Visible = cell.Get
	}

	record.Container = node.New(props, host)
	return record, nil
}
