// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package node is the visual container primitive that panels render
// into: a tree of lipgloss-styled boxes with z-ordered children.
//
// A [Node] either flows (stacked vertically under its parent's text,
// in z order) or overlays (spliced over its parent's rendered box at an
// offset, after all flow content, in z order). Overlays are how an
// anchored child panel docks inside its parent's chrome.
//
// Visibility is pulled, not pushed: a node holds functions that report
// whether it is shown and how transparent it is, and [Node.View] calls
// them on every render. This lets the panel builder bind nodes to
// reactive cells without the tree ever being rebuilt when a cell
// changes.
package node
