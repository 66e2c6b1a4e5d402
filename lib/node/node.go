// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package node

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/panelforge/lib/tui"
)

// FaintThreshold is the transparency at or above which a node is drawn
// faint instead of normally.
const FaintThreshold = 0.5

// Props is the property bag a node is created from.
type Props struct {
	// Name identifies the node for lookup and debugging.
	Name string

	// ZIndex orders siblings. Lower values render first; among
	// overlays, higher values end up on top. Ties keep insertion order.
	ZIndex int

	// Text is the node's own content, rendered above flowing children.
	Text string

	// Style wraps the node's text and flowing children (borders,
	// padding, width). Nil leaves them unstyled.
	Style *lipgloss.Style

	// Overlay nodes are spliced over the parent's rendered box at
	// (OffsetX, OffsetY) instead of flowing below its content.
	Overlay bool
	OffsetX int
	OffsetY int

	// Visible reports whether the node is shown. Nil means always.
	Visible func() bool

	// Transparency reports 0 (opaque) through 1 (invisible). Nil means
	// opaque. Values at or above 1 hide the node entirely.
	Transparency func() float64
}

// Node is one element of a render tree.
type Node struct {
	Props

	parent   *Node
	children []*Node
}

// New creates a node and appends children to it.
func New(props Props, children ...*Node) *Node {
	created := &Node{Props: props}
	created.Append(children...)
	return created
}

// Append adds children in order, detaching each from any previous
// parent first. Nil children are ignored.
func (n *Node) Append(children ...*Node) {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.Detach()
		child.parent = n
		n.children = append(n.children, child)
	}
}

// Detach removes the node from its parent. No-op for roots.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for index, sibling := range siblings {
		if sibling == n {
			n.parent.children = append(siblings[:index:index], siblings[index+1:]...)
			break
		}
	}
	n.parent = nil
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Clone returns a deep copy of the subtree rooted at n. The copy has
// no parent. Visibility functions are shared, not copied.
func (n *Node) Clone() *Node {
	copied := &Node{Props: n.Props}
	for _, child := range n.children {
		copied.Append(child.Clone())
	}
	return copied
}

// Strip reduces the node to a bare positioning host: every descendant
// and the node's own text are removed, and its style is replaced by the
// insets it implied (margin, border, padding) folded into OffsetX and
// OffsetY. Content appended to a stripped copy of a panel therefore
// lands where the original panel's content area begins, without
// repeating its decoration. Z order and visibility are kept.
func (n *Node) Strip() {
	for _, child := range n.children {
		child.parent = nil
	}
	n.children = nil
	n.Text = ""
	if n.Style != nil {
		n.OffsetX += n.Style.GetMarginLeft() + n.Style.GetBorderLeftSize() + n.Style.GetPaddingLeft()
		n.OffsetY += n.Style.GetMarginTop() + n.Style.GetBorderTopSize() + n.Style.GetPaddingTop()
		n.Style = nil
	}
}

// Walk visits n and its descendants depth-first, parents before
// children. Returning false from visit skips that node's subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// Find returns the first node in the subtree named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(candidate *Node) bool {
		if found != nil {
			return false
		}
		if candidate.Name == name {
			found = candidate
			return false
		}
		return true
	})
	return found
}

// Contains reports whether target is n or one of its descendants.
func (n *Node) Contains(target *Node) bool {
	for current := target; current != nil; current = current.parent {
		if current == n {
			return true
		}
	}
	return false
}

// Shown reports whether the node would draw anything.
func (n *Node) Shown() bool {
	if n.Visible != nil && !n.Visible() {
		return false
	}
	return n.transparency() < 1
}

func (n *Node) transparency() float64 {
	if n.Transparency == nil {
		return 0
	}
	return n.Transparency()
}

// View renders the subtree. Hidden nodes render as the empty string
// and take no space.
func (n *Node) View() string {
	if !n.Shown() {
		return ""
	}

	ordered := slices.Clone(n.children)
	slices.SortStableFunc(ordered, func(a, b *Node) int { return a.ZIndex - b.ZIndex })

	var parts []string
	if n.Text != "" {
		parts = append(parts, n.Text)
	}
	var overlays []*Node
	for _, child := range ordered {
		if child.Overlay {
			overlays = append(overlays, child)
			continue
		}
		if view := child.View(); view != "" {
			parts = append(parts, view)
		}
	}

	rendered := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if n.Style != nil {
		rendered = n.Style.Render(rendered)
	}

	for _, overlay := range overlays {
		view := overlay.View()
		if view == "" {
			continue
		}
		rendered = tui.SpliceOverlay(rendered, strings.Split(view, "\n"), overlay.OffsetX, overlay.OffsetY)
	}

	if n.transparency() >= FaintThreshold {
		rendered = lipgloss.NewStyle().Faint(true).Render(ansi.Strip(rendered))
	}
	return rendered
}
