// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface pieces for the
// panelforge viewers: the color theme, ANSI-aware overlay splicing
// (used to dock anchored panels over their parent's chrome), fzf fuzzy
// matching for the panel finder, the list scrollbar, and row flashes
// that fade out after a panel changes visibility.
//
// Nothing here knows about panels or visibility; [github.com/bureau-foundation/panelforge/lib/node]
// and the preview model in lib/forgeui build on these primitives.
package tui
