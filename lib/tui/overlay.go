// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// resetStyle ends whatever SGR state the text before it left open.
const resetStyle = "\x1b[0m"

// SpliceOverlay draws overlay lines over view with the overlay's top
// left cell at column x, row y. Columns are display cells, so styled
// text on either side of the overlay keeps its escape sequences.
//
// The view grows as needed: rows past its end are added and rows
// shorter than x are padded with spaces. Negative coordinates are
// treated as 0.
func SpliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	x, y = max(x, 0), max(y, 0)

	var rows []string
	if view != "" {
		rows = strings.Split(view, "\n")
	}
	if missing := y + len(overlay) - len(rows); missing > 0 {
		rows = append(rows, make([]string, missing)...)
	}
	for offset, line := range overlay {
		rows[y+offset] = spliceLine(rows[y+offset], line, x)
	}
	return strings.Join(rows, "\n")
}

// spliceLine replaces the cells of base under insert, starting at
// column.
func spliceLine(base, insert string, column int) string {
	baseWidth := ansi.StringWidth(base)

	var line strings.Builder
	if baseWidth < column {
		line.WriteString(base)
		line.WriteString(strings.Repeat(" ", column-baseWidth))
	} else {
		line.WriteString(ansi.Truncate(base, column, ""))
	}
	line.WriteString(resetStyle)
	line.WriteString(insert)
	line.WriteString(resetStyle)

	if end := column + ansi.StringWidth(insert); end < baseWidth {
		line.WriteString(ansi.TruncateLeft(base, end, ""))
	}
	return line.String()
}
