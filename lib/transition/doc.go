// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transition animates a scalar toward a target that is
// re-derived on every frame. It backs the fade wrappers that panels
// declare: the target is a function of a visibility cell, and the
// animated value is the wrapper's transparency.
//
// Animation is pull-based. Nothing runs in the background: each call
// to [Spring.Value] advances the simulation to the clock's current time
// in fixed frames, so a paused program costs nothing and tests drive
// time with a fake clock.
package transition
