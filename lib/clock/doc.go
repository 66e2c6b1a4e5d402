// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock supplies the time source behind fades and row
// flashes. Production code uses [Real]; tests use [Fake] and step it
// by durations or whole display frames.
package clock
