// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/panelforge/lib/layout"
	"github.com/bureau-foundation/panelforge/lib/panel"
)

// printTree writes the layout digest and the panel tree with each
// panel's settled initial visibility and rules.
func printTree(writer io.Writer, forge *panel.Forge, digest layout.Digest) {
	registry := forge.Registry()
	fmt.Fprintf(writer, "layout %s (%d panels)\n", digest, registry.Len())

	printed := make(map[panel.Key]bool)
	var walk func(*panel.Panel, int)
	walk = func(current *panel.Panel, depth int) {
		if printed[current.Key()] {
			return
		}
		printed[current.Key()] = true
		fmt.Fprintf(writer, "%s%s\n", strings.Repeat("  ", depth), describe(forge, current))
		for _, child := range registry.Children(current.Key()) {
			walk(child, depth+1)
		}
	}
	for _, registered := range registry.Panels() {
		if !registered.IsChild() {
			walk(registered, 0)
		}
	}
}

// reportIssues lists layout validation problems one per line.
func reportIssues(writer io.Writer, path string, issues []string) {
	fmt.Fprintf(writer, "%s: %d issues\n", path, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(writer, "  %s\n", issue)
	}
}

// describe renders one panel as "● name@group  key=value ...".
func describe(forge *panel.Forge, current *panel.Panel) string {
	marker := "○"
	if forge.Visible(current.Key()) {
		marker = "●"
	}
	parts := []string{marker + " " + current.Key().String(), fmt.Sprintf("z=%d", current.ZIndex())}
	if group := current.ExclusiveGroup(); group != "" {
		parts = append(parts, "exclusive="+group)
	}
	if current.Anchor() {
		parts = append(parts, "anchored")
	}
	if fade, ok := current.Fade(); ok {
		parts = append(parts, fmt.Sprintf("fade=%s/%g", fade.Period, fade.DampingRatio))
	}
	if current.InitialVisible() != forge.Visible(current.Key()) {
		parts = append(parts, "(settled)")
	}
	return strings.Join(parts, "  ")
}
