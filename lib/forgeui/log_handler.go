// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries one log record into the model's status bar.
type logRecordMsg struct {
	// Summary is "message (key=value, ...)" on one line.
	Summary string

	// Level picks the status bar color.
	Level slog.Level

	// sequence pairs the record with its fade message, so a fade
	// scheduled for an older record does not clear a newer one.
	sequence uint64
}

// logRecordFadeMsg clears the status bar if it still shows the record
// with the same sequence number.
type logRecordFadeMsg struct {
	sequence uint64
}

// logRecordFadeDelay is how long a record stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that delivers records to a running
// bubbletea program for display in the preview's status bar. Records
// below the handler's level, and records that arrive before
// [TUILogHandler.SetProgram], are dropped.
//
// Handlers derived with WithAttrs and WithGroup share the program
// pointer and sequence counter of the handler they came from.
type TUILogHandler struct {
	level    slog.Level
	program  *atomic.Pointer[tea.Program]
	sequence *atomic.Uint64
	attrs    []string
	prefix   string
}

// NewTUILogHandler returns a handler for records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:    level,
		program:  &atomic.Pointer[tea.Program]{},
		sequence: &atomic.Uint64{},
	}
}

// SetProgram connects the handler to program. Safe to call from any
// goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled reports whether level is at or above the handler's level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle sends the record to the program. The send happens on its own
// goroutine: the model logs from inside Update, and Program.Send blocks
// until the event loop running that Update reads the message.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	message := handler.message(record)
	go program.Send(message)
	return nil
}

func (handler *TUILogHandler) message(record slog.Record) logRecordMsg {
	parts := slices.Clone(handler.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, handler.prefix, attr)
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	return logRecordMsg{
		Summary:  summary,
		Level:    record.Level,
		sequence: handler.sequence.Add(1),
	}
}

// WithAttrs returns a handler that adds attrs to every record.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	for _, attr := range attrs {
		derived.attrs = appendAttr(derived.attrs, handler.prefix, attr)
	}
	return &derived
}

// WithGroup returns a handler that qualifies later attribute keys
// with name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	derived.prefix = handler.prefix + name + "."
	return &derived
}

// appendAttr formats attr as key=value, flattening nested groups.
func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := prefix
		if attr.Key != "" {
			nested += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, nested, member)
		}
		return parts
	}
	return append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
}
