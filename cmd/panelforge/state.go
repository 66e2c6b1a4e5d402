// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/panelforge/lib/layout"
	"github.com/bureau-foundation/panelforge/lib/panel"
)

// loadState restores the snapshot at path into forge if it was taken
// against the same layout digest. A missing file is normal. Unreadable
// or stale snapshots are logged and skipped. Reports whether anything
// was restored.
func loadState(path string, digest layout.Digest, forge *panel.Forge, logger *slog.Logger) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		logger.Warn("cannot read saved state", "path", path, "error", err)
		return false
	}

	snapshot, err := panel.DecodeSnapshot(data)
	if err != nil {
		logger.Warn("ignoring corrupt saved state", "path", path, "error", err)
		return false
	}
	if !bytes.Equal(snapshot.Layout, digest[:]) {
		logger.Info("ignoring saved state from a different layout", "path", path)
		return false
	}

	forge.Restore(snapshot)
	logger.Debug("restored saved state", "path", path, "panels", len(snapshot.Panels))
	return true
}

// saveState writes forge's snapshot, tagged with digest, to path. The
// file is written beside path, synced, and renamed into place.
func saveState(path string, digest layout.Digest, forge *panel.Forge) error {
	snapshot := forge.Snapshot()
	snapshot.Layout = digest[:]
	data, err := panel.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary state file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary state file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary state file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming state file into place: %w", err)
	}
	return nil
}
