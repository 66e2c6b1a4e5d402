// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"fmt"
	"strings"
)

// DefaultGroup is the group of a panel that does not name one.
const DefaultGroup = "None"

// Key identifies a panel. Keys are comparable and used directly as map
// keys; construct them with [NewKey] so an empty group normalizes to
// [DefaultGroup].
type Key struct {
	Name  string
	Group string
}

// NewKey returns the key for name in group. An empty group becomes
// [DefaultGroup].
func NewKey(name, group string) Key {
	if group == "" {
		group = DefaultGroup
	}
	return Key{Name: name, Group: group}
}

// Named returns the key for name in [DefaultGroup].
func Named(name string) Key {
	return NewKey(name, "")
}

// String formats the key as "name@group".
func (key Key) String() string {
	return key.Name + "@" + key.Group
}

// ParseKey parses "name@group" or a bare "name". The group separator is
// the last "@", so names may contain "@" but groups may not.
func ParseKey(text string) (Key, error) {
	name, group := text, ""
	if index := strings.LastIndex(text, "@"); index >= 0 {
		name, group = text[:index], text[index+1:]
	}
	if name == "" {
		return Key{}, fmt.Errorf("parsing panel key %q: %w", text, ErrMissingName)
	}
	return NewKey(name, group), nil
}
