// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/panelforge/lib/tui"
)

// FinderModel narrows the panel list with fzf-style fuzzy matching on
// each row's "name@group" label.
type FinderModel struct {
	// Input is the current query.
	Input string

	// Active is true while the query has keyboard focus.
	Active bool

	slab *util.Slab
}

// finderMatch is one row that survived the query.
type finderMatch struct {
	row       int
	score     int
	positions []int
}

// Apply returns the rows whose labels match the query, best score
// first. Ties keep list order. An empty query returns every row in
// list order.
func (finder *FinderModel) Apply(labels []string) []finderMatch {
	matches := make([]finderMatch, 0, len(labels))
	if finder.Input == "" {
		for index := range labels {
			matches = append(matches, finderMatch{row: index})
		}
		return matches
	}

	if finder.slab == nil {
		finder.slab = tui.NewSlab()
	}
	pattern := []rune(finder.Input)
	for index, label := range labels {
		result := tui.FuzzyMatch(label, pattern, finder.slab)
		if !result.Matched {
			continue
		}
		matches = append(matches, finderMatch{row: index, score: result.Score, positions: result.Positions})
	}
	slices.SortStableFunc(matches, func(a, b finderMatch) int {
		return cmp.Compare(b.score, a.score)
	})
	return matches
}

// HandleRune appends a typed character to the query.
func (finder *FinderModel) HandleRune(character rune) {
	finder.Input += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// query was already empty.
func (finder *FinderModel) HandleBackspace() bool {
	if finder.Input == "" {
		return false
	}
	runes := []rune(finder.Input)
	finder.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties the query and releases focus.
func (finder *FinderModel) Clear() {
	finder.Input = ""
	finder.Active = false
}

// View renders the finder line, or "" when there is neither focus nor
// a query.
func (finder *FinderModel) View(theme tui.Theme, width int) string {
	switch {
	case finder.Active:
		cursor := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).Render(" / " + finder.Input + cursor)
	case finder.Input != "":
		return lipgloss.NewStyle().Foreground(theme.FaintText).Width(width).Render(" find: " + finder.Input)
	}
	return ""
}

// highlight renders label with the matched rune positions emphasized.
func highlight(label string, positions []int, base, match lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(label)
	}
	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}
	var builder strings.Builder
	for index, character := range []rune(label) {
		style := base
		if matched[index] {
			style = match
		}
		builder.WriteString(style.Render(string(character)))
	}
	return builder.String()
}
