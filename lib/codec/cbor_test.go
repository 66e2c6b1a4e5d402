// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleState struct {
	Name    string `cbor:"name"`
	Visible bool   `cbor:"visible"`
	Extra   string `cbor:"extra,omitempty"`
}

func TestMarshal_Deterministic(t *testing.T) {
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("map encoding is not deterministic")
		}
	}
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"name": "Inventory", "visible": true, "future": 42})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleState
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Name != "Inventory" || !decoded.Visible {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestUnmarshal_RejectsDuplicateKeys(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}

	var decoded map[string]int
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatalf("duplicate key accepted: %v", decoded)
	}
}

func TestUnmarshal_RejectsDeepNesting(t *testing.T) {
	// maxNesting+4 single-element arrays around a zero.
	data := bytes.Repeat([]byte{0x81}, maxNesting+4)
	data = append(data, 0x00)

	var decoded any
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("deeply nested input accepted")
	}
}
