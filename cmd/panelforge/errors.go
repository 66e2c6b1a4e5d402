// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// errorCategory classifies command failures for the exit message.
type errorCategory string

const (
	// categoryValidation: bad flags, config, or layout. Fix the input.
	categoryValidation errorCategory = "validation"

	// categoryNotFound: a named panel or file does not exist.
	categoryNotFound errorCategory = "not_found"

	// categoryInternal: I/O failures and bugs.
	categoryInternal errorCategory = "internal"
)

// toolError is a categorized error with an optional hint printed
// beneath the message.
type toolError struct {
	Category errorCategory
	Err      error
	Hint     string
}

func (e *toolError) Error() string { return e.Err.Error() }

func (e *toolError) Unwrap() error { return e.Err }

// WithHint attaches a suggestion for fixing the error.
func (e *toolError) WithHint(hint string) *toolError {
	e.Hint = hint
	return e
}

func validation(format string, args ...any) *toolError {
	return &toolError{Category: categoryValidation, Err: fmt.Errorf(format, args...)}
}

func notFound(format string, args ...any) *toolError {
	return &toolError{Category: categoryNotFound, Err: fmt.Errorf(format, args...)}
}

func internal(format string, args ...any) *toolError {
	return &toolError{Category: categoryInternal, Err: fmt.Errorf(format, args...)}
}

// exitError ends the process with Code without printing anything more.
// --check uses it after it has already reported the problems.
type exitError struct {
	Code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.Code) }

// ExitCode returns the process exit code.
func (e *exitError) ExitCode() int { return e.Code }
