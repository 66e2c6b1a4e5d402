// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds panelforge's CBOR settings. Visibility snapshots
// are stored with it, and layout digests hash its output.
//
// Encoding is deterministic (RFC 8949 §4.2 core rules), so a value
// always encodes to the same bytes and two encodings can be compared
// or hashed directly. Decoding is strict about structure (no duplicate
// keys, bounded nesting) and lenient about schema (unknown fields are
// skipped).
package codec
