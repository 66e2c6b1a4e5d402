// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "github.com/fxamacker/cbor/v2"

// maxNesting bounds how deep decoded arrays and maps may nest. Snapshot
// and layout encodings are a few levels deep; anything deeper is a
// corrupt or hostile file.
const maxNesting = 16

var (
	// encoding uses Core Deterministic Encoding (sorted map keys,
	// shortest integer forms, definite lengths) so equal values always
	// produce equal bytes.
	encoding = mustEncMode(cbor.CoreDetEncOptions())

	// decoding rejects duplicate map keys and excessive nesting.
	// Unknown struct fields are skipped, so files written by a newer
	// build still load.
	decoding = mustDecMode(cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: maxNesting,
	})
)

func mustEncMode(options cbor.EncOptions) cbor.EncMode {
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: invalid CBOR encoding options: " + err.Error())
	}
	return mode
}

func mustDecMode(options cbor.DecOptions) cbor.DecMode {
	mode, err := options.DecMode()
	if err != nil {
		panic("codec: invalid CBOR decoding options: " + err.Error())
	}
	return mode
}

// Marshal returns the deterministic CBOR encoding of value.
func Marshal(value any) ([]byte, error) {
	return encoding.Marshal(value)
}

// Unmarshal decodes data into target.
func Unmarshal(data []byte, target any) error {
	return decoding.Unmarshal(data, target)
}
