// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of panelforge is running, for
// --version flags.
//
// Release builds inject [Version], [GitCommit], [GitDirty], and
// [BuildTime] with -ldflags -X. Development builds leave them empty and
// [Current] falls back to the VCS information the Go toolchain embeds
// (vcs.revision, vcs.modified, vcs.time).
package version
