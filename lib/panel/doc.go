// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package panel orchestrates the visibility and composition of a tree
// of independently registered terminal UI panels.
//
// A panel is identified by a [Key]: a name unique within a group. Panels
// are described by a [Descriptor] and registered into a [Registry]. At
// registration a descriptor becomes a [Panel] of kind [KindRoot] or
// [KindChild]; child panels name a parent they are visibility-dependent
// on and, optionally, anchored inside.
//
// A [Forge] owns the runtime state for one registry:
//
//   - a [Store] holding one reactive boolean cell per panel,
//   - an [Engine] that keeps derived visibility consistent after every
//     write (closing children when their parent closes, restoring them
//     when it reopens, and enforcing exclusive groups),
//   - a [RestoreCache] remembering each child's visibility across a
//     parent's close/reopen cycle,
//   - a render-tree builder that materializes the requested panels and
//     their children into [node.Node] containers.
//
// Everything runs synchronously on the caller's goroutine. A write
// through [Forge.Open], [Forge.Close], [Forge.Toggle], or a bound cell
// returns only after the whole cascade has settled, and subscribers
// observe each changed cell once, with its settled value. A Forge is
// not safe for concurrent use; confine it to one goroutine (in a
// bubbletea program, the Update loop).
//
// Independent Forge instances share nothing and may coexist, even over
// the same registry.
package panel
