// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar draws a one-column scrollbar of the given height for
// a list of total rows of which window are shown starting at offset.
// When everything fits the thumb fills the track.
func RenderScrollbar(theme Theme, height, total, window, offset int) string {
	if height <= 0 {
		return ""
	}

	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.SelectedForeground).Render("┃")

	thumbStart, thumbSize := 0, height
	if total > window && total > 0 {
		thumbSize = max(1, height*window/total)
		if scrollable, free := total-window, height-thumbSize; scrollable > 0 && free > 0 {
			thumbStart = min(offset*free/scrollable, free)
		}
	}

	lines := make([]string, height)
	for row := range lines {
		if row >= thumbStart && row < thumbStart+thumbSize {
			lines[row] = thumb
		} else {
			lines[row] = track
		}
	}
	return strings.Join(lines, "\n")
}
