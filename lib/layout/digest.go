// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/panelforge/lib/codec"
)

// Digest is a 32-byte BLAKE3 hash identifying a layout.
type Digest [32]byte

// String returns the digest as lowercase hex.
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// layoutDomainKey is the BLAKE3 key for layout digests: the ASCII
// domain name, zero-padded to 32 bytes.
var layoutDomainKey = [32]byte{
	'p', 'a', 'n', 'e', 'l', 'f', 'o', 'r', 'g', 'e', '.', 'l', 'a', 'y', 'o', 'u',
	't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest hashes the layout's deterministic CBOR encoding, so the same
// panels produce the same digest whether they were authored as YAML or
// JSONC, and regardless of comments or formatting.
func (file *File) Digest() (Digest, error) {
	data, err := codec.Marshal(file)
	if err != nil {
		return Digest{}, fmt.Errorf("encoding layout for digest: %w", err)
	}

	hasher, err := blake3.NewKeyed(layoutDomainKey[:])
	if err != nil {
		panic("layout: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}
