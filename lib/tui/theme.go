// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for panelforge terminal UIs. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row in the panel list.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Visibility markers in the panel list.
	VisibleMarker lipgloss.Color
	HiddenMarker  lipgloss.Color

	// Panel chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	ChildBorderColor lipgloss.Color
	HelpText         lipgloss.Color

	// Fuzzy finder match highlighting.
	MatchForeground lipgloss.Color

	// Row flash backgrounds after a visibility change.
	FlashOpened lipgloss.Color
	FlashClosed lipgloss.Color

	// Status bar log levels.
	WarnForeground  lipgloss.Color
	ErrorForeground lipgloss.Color
}

// MarkerColor returns the list marker color for a visibility state.
func (theme Theme) MarkerColor(visible bool) lipgloss.Color {
	if visible {
		return theme.VisibleMarker
	}
	return theme.HiddenMarker
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	VisibleMarker: lipgloss.Color("114"), // green
	HiddenMarker:  lipgloss.Color("240"), // dim gray

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	ChildBorderColor: lipgloss.Color("75"), // blue
	HelpText:         lipgloss.Color("241"),

	MatchForeground: lipgloss.Color("220"), // amber

	FlashOpened: lipgloss.Color("22"), // dark green
	FlashClosed: lipgloss.Color("52"), // dark red

	WarnForeground:  lipgloss.Color("208"),
	ErrorForeground: lipgloss.Color("196"),
}
