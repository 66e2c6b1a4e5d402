// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the preview.
type KeyMap struct {
	// List navigation.
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Visibility control for the selected panel.
	Toggle key.Binding
	Open   key.Binding
	Close  key.Binding

	// Finder.
	FinderActivate key.Binding // Enter finder mode.
	FinderClear    key.Binding // Clear the finder and leave finder mode.
	FinderConfirm  key.Binding // Keep the query and return to the list.

	// Reload rebuilds the preview tree from the registry.
	Reload key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Close: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "close"),
	),
	FinderActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find"),
	),
	FinderClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear"),
	),
	FinderConfirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "confirm"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
