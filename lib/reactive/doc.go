// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package reactive provides single-value observable cells with
// synchronous subscriber notification and batched updates.
//
// A [Cell] holds one comparable value. Writing a different value
// notifies every subscriber before Set returns. Writing an equal value
// is a no-op. A [Scope] groups cells that share a batching context:
// inside [Scope.Batch], writes take effect immediately (reads observe
// the new value) but notifications are held until the outermost batch
// returns, then delivered once per changed cell.
//
// Everything here is single-threaded. Cells and scopes must not be
// shared across goroutines without external synchronization; in the
// panelforge TUI all access happens on the bubbletea Update goroutine.
//
// This package depends on no other panelforge packages.
package reactive
