// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package forgeui is the interactive bubbletea preview for a
// [panel.Forge].
//
// The screen has two panes. The left pane lists every registered panel
// as a tree (children indented under their parent) with a visibility
// marker; the right pane shows the rendered root containers exactly as
// the forge's render builder produced them. Keys toggle, open, or close
// the selected panel through the forge, so the rule engine's cascades
// (children closing with their parent, exclusive groups) are visible
// immediately. A "/" finder narrows the list with fzf matching.
//
// While any fade is in flight the model schedules frame ticks at the
// configured rate; it stops ticking once every spring has settled.
//
// Warnings and errors logged while the program runs are shown in the
// status bar via [TUILogHandler].
package forgeui
