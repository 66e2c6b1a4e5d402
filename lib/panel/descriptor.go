// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"math"
	"time"

	"github.com/bureau-foundation/panelforge/lib/node"
)

const (
	// LowestZIndex is the default stacking index of child panels.
	LowestZIndex = 0

	// RootZIndex is the default stacking index of root panels.
	RootZIndex = 1
)

// Renderer produces a panel's visual subtree.
type Renderer interface {
	Render() *node.Node
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func() *node.Node

// Render calls fn.
func (fn RendererFunc) Render() *node.Node {
	return fn()
}

// Constructor creates a panel's renderer. It is called once per render
// pass for the panel itself and once more for each anchored child that
// needs a copy of this panel's chrome.
type Constructor func(panel *Panel, context *Context) Renderer

// Context is passed to every constructor in a render pass.
type Context struct {
	// Forge is the forge performing the render. Constructors may keep
	// it to open or close panels from input handlers.
	Forge *Forge

	// Props is the caller-supplied value from the render request,
	// passed through untouched.
	Props any

	// Scale converts design units to terminal cells. Nil rounds.
	Scale func(float64) int
}

// Px scales a design-unit length to terminal cells.
func (context *Context) Px(value float64) int {
	if context == nil || context.Scale == nil {
		return int(math.Round(value))
	}
	return context.Scale(value)
}

// Fade configures the spring that drives a panel container's
// transparency. Zero fields take the transition package defaults.
type Fade struct {
	Period       time.Duration
	DampingRatio float64
}

// ParentRule declares the panel a child depends on. An empty Group
// means the child's own group.
type ParentRule struct {
	Name  string
	Group string

	// Anchor hosts the child inside a stripped copy of the parent's
	// chrome instead of flowing it below the parent.
	Anchor bool
}

// Rules are the relationships a panel participates in.
type Rules struct {
	// ExclusiveGroup names a set of panels of which at most one is
	// visible. Empty means none.
	ExclusiveGroup string

	// ZIndex overrides the default stacking index. Nil keeps
	// [LowestZIndex] for children and [RootZIndex] for roots.
	ZIndex *int

	// Parent makes the panel a child. Nil makes it a root.
	Parent *ParentRule
}

// ZIndex returns a pointer to value, for [Rules.ZIndex] literals.
func ZIndex(value int) *int {
	return &value
}

// Descriptor is the input to [Registry.Register].
type Descriptor struct {
	Name  string
	Group string

	// Visible is the initial visibility.
	Visible bool

	Rules       Rules
	Fade        *Fade
	Constructor Constructor
}

// Kind discriminates root panels from child panels.
type Kind int

const (
	KindRoot Kind = iota
	KindChild
)

func (kind Kind) String() string {
	switch kind {
	case KindRoot:
		return "root"
	case KindChild:
		return "child"
	default:
		return "unknown"
	}
}

// Panel is a registered descriptor. Panels are immutable apart from a
// fade attached later with [Registry.AttachFade].
type Panel struct {
	key            Key
	kind           Kind
	parent         Key
	anchor         bool
	visible        bool
	exclusiveGroup string
	zIndex         int
	fade           *Fade
	constructor    Constructor
	order          int
}

func newPanel(descriptor Descriptor, order int) *Panel {
	panel := &Panel{
		key:            NewKey(descriptor.Name, descriptor.Group),
		kind:           KindRoot,
		visible:        descriptor.Visible,
		exclusiveGroup: descriptor.Rules.ExclusiveGroup,
		zIndex:         RootZIndex,
		constructor:    descriptor.Constructor,
		order:          order,
	}
	if parent := descriptor.Rules.Parent; parent != nil {
		group := parent.Group
		if group == "" {
			group = panel.key.Group
		}
		panel.kind = KindChild
		panel.parent = NewKey(parent.Name, group)
		panel.anchor = parent.Anchor
		panel.zIndex = LowestZIndex
	}
	if descriptor.Rules.ZIndex != nil {
		panel.zIndex = *descriptor.Rules.ZIndex
	}
	if descriptor.Fade != nil {
		fade := *descriptor.Fade
		panel.fade = &fade
	}
	return panel
}

// Key returns the panel's identity.
func (panel *Panel) Key() Key { return panel.key }

// Kind reports whether the panel is a root or a child.
func (panel *Panel) Kind() Kind { return panel.kind }

// IsChild reports whether the panel has a parent.
func (panel *Panel) IsChild() bool { return panel.kind == KindChild }

// Parent returns the parent key of a child panel.
func (panel *Panel) Parent() (Key, bool) {
	return panel.parent, panel.kind == KindChild
}

// Anchor reports whether a child is hosted in a copy of its parent's
// chrome.
func (panel *Panel) Anchor() bool { return panel.anchor }

// InitialVisible is the visibility a newly created cell starts with.
func (panel *Panel) InitialVisible() bool { return panel.visible }

// ExclusiveGroup returns the panel's exclusive group, or "".
func (panel *Panel) ExclusiveGroup() string { return panel.exclusiveGroup }

// ZIndex returns the effective stacking index.
func (panel *Panel) ZIndex() int { return panel.zIndex }

// Fade returns the panel's fade configuration, if any.
func (panel *Panel) Fade() (Fade, bool) {
	if panel.fade == nil {
		return Fade{}, false
	}
	return *panel.fade, true
}

// instantiate runs the constructor and renders. A constructor that
// produces nothing yields an empty placeholder node.
func (panel *Panel) instantiate(context *Context) *node.Node {
	renderer := panel.constructor(panel, context)
	if renderer != nil {
		if instance := renderer.Render(); instance != nil {
			return instance
		}
	}
	return node.New(node.Props{Name: panel.key.String()})
}
