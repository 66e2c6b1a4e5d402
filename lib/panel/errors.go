// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"errors"
	"fmt"
)

// Configuration sentinels, returned wrapped in a [ConfigurationError]
// at registration time.
var (
	ErrDuplicateRegistration = errors.New("panel already registered")
	ErrMissingName           = errors.New("panel name is required")
	ErrMissingConstructor    = errors.New("panel constructor is required")
	ErrParentCycle           = errors.New("parent chain forms a cycle")
)

// Lookup sentinels, returned wrapped in a [LookupError] when a caller
// names a panel the forge cannot resolve.
var (
	ErrMissingDescriptor = errors.New("no panel registered")
	ErrMissingSource     = errors.New("panel has no visibility cell")
	ErrMissingParent     = errors.New("parent panel is not registered")
)

// ConfigurationError reports a descriptor that cannot be registered.
// These are wiring bugs in panel definitions: fail fast at startup.
type ConfigurationError struct {
	Key Key
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("registering panel %s: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LookupError reports a reference to a panel, cell, or parent that does
// not exist.
type LookupError struct {
	Key Key
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("panel %s: %v", e.Key, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
