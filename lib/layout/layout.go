// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout reads declarative panel layout files and registers the
// panels they describe.
//
// Layouts are authored as YAML or as JSONC (JSON extended with comments
// and trailing commas). Both formats decode into the same [File]:
//
//	panels:
//	  - name: Inventory
//	    group: Player
//	    visible: true
//	    exclusive_group: screens
//	    title: Inventory
//	    body: "12 items"
//	    border: rounded
//	  - name: Tooltip
//	    group: Player
//	    parent: Inventory
//	    anchor: true
//	    fade: {period: 200ms, damping_ratio: 0.8}
//
// The typical flow:
//
//  1. ReadFile or Parse: bytes → File
//  2. Validate: structural checks, reported as a list of issues
//  3. Register: File → panels in a [panel.Registry], each rendered as a
//     titled text box
//  4. Digest: a content hash identifying the layout, used to discard
//     visibility snapshots taken against a different layout
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is a parsed layout.
type File struct {
	Panels []PanelSpec `yaml:"panels" json:"panels"`
}

// PanelSpec declares one panel.
type PanelSpec struct {
	Name           string `yaml:"name" json:"name"`
	Group          string `yaml:"group,omitempty" json:"group,omitempty"`
	Visible        bool   `yaml:"visible,omitempty" json:"visible,omitempty"`
	ExclusiveGroup string `yaml:"exclusive_group,omitempty" json:"exclusive_group,omitempty"`
	ZIndex         *int   `yaml:"z_index,omitempty" json:"z_index,omitempty"`

	// Parent makes the panel a child. ParentGroup defaults to Group.
	Parent      string `yaml:"parent,omitempty" json:"parent,omitempty"`
	ParentGroup string `yaml:"parent_group,omitempty" json:"parent_group,omitempty"`
	Anchor      bool   `yaml:"anchor,omitempty" json:"anchor,omitempty"`

	Fade *FadeSpec `yaml:"fade,omitempty" json:"fade,omitempty"`

	// Content of the text box the panel renders as.
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Body   string `yaml:"body,omitempty" json:"body,omitempty"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Border string `yaml:"border,omitempty" json:"border,omitempty"`
}

// FadeSpec configures a panel's fade. Period is a Go duration string.
type FadeSpec struct {
	Period       string  `yaml:"period,omitempty" json:"period,omitempty"`
	DampingRatio float64 `yaml:"damping_ratio,omitempty" json:"damping_ratio,omitempty"`
}

// period parses Period. Empty means the transition default.
func (fade *FadeSpec) period() (time.Duration, error) {
	if fade.Period == "" {
		return 0, nil
	}
	return time.ParseDuration(fade.Period)
}

// Format is a layout file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSONC
)

// FormatFromPath picks the format from a file extension: .json and
// .jsonc are JSONC, everything else is YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// Parse decodes a layout in the given format.
func Parse(data []byte, format Format) (*File, error) {
	var file File
	switch format {
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("parsing layout: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing layout: %w", err)
		}
	}
	return &file, nil
}

// ReadFile reads and parses a layout file, choosing the format from
// the extension.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	file, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}
