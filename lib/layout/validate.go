// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"slices"

	"github.com/bureau-foundation/panelforge/lib/panel"
)

// borderNames are the accepted values of PanelSpec.Border.
var borderNames = []string{"", "none", "normal", "rounded", "thick", "double"}

// Validate checks a layout for structural issues. Returns a list of
// human-readable issue descriptions. An empty list means the layout is
// valid.
//
// Structural checks include:
//   - Each panel must have a Name, unique within its group
//   - ParentGroup and Anchor require Parent
//   - Parent must name a panel declared in the file
//   - Fade period must be a positive duration; damping ratio must not
//     be negative
//   - Width must not be negative; Border must be a known style
//
// Parent cycles are reported by [File.Register].
func Validate(file *File) []string {
	var issues []string

	if len(file.Panels) == 0 {
		issues = append(issues, "layout has no panels")
	}

	declared := make(map[panel.Key]int, len(file.Panels))
	for index, spec := range file.Panels {
		if spec.Name == "" {
			continue
		}
		key := panel.NewKey(spec.Name, spec.Group)
		if firstIndex, exists := declared[key]; exists {
			issues = append(issues, fmt.Sprintf(
				"panels[%d] %s: duplicate panel (first declared at panels[%d])",
				index, key, firstIndex,
			))
			continue
		}
		declared[key] = index
	}

	for index, spec := range file.Panels {
		label := fmt.Sprintf("panels[%d]", index)
		if spec.Name == "" {
			issues = append(issues, label+": name is required")
		} else {
			label += " " + panel.NewKey(spec.Name, spec.Group).String()
		}

		if spec.Parent == "" {
			if spec.ParentGroup != "" {
				issues = append(issues, label+": parent_group requires parent")
			}
			if spec.Anchor {
				issues = append(issues, label+": anchor requires parent")
			}
		} else if _, ok := declared[spec.parentKey()]; !ok {
			issues = append(issues, fmt.Sprintf("%s: parent %s is not declared", label, spec.parentKey()))
		}

		if spec.Fade != nil {
			period, err := spec.Fade.period()
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: fade.period: %v", label, err))
			} else if spec.Fade.Period != "" && period <= 0 {
				issues = append(issues, fmt.Sprintf("%s: fade.period must be positive, got %s", label, spec.Fade.Period))
			}
			if spec.Fade.DampingRatio < 0 {
				issues = append(issues, fmt.Sprintf("%s: fade.damping_ratio must not be negative", label))
			}
		}

		if spec.Width < 0 {
			issues = append(issues, fmt.Sprintf("%s: width must not be negative", label))
		}
		if !slices.Contains(borderNames, spec.Border) {
			issues = append(issues, fmt.Sprintf("%s: border must be one of: %v", label, borderNames[1:]))
		}
	}

	return issues
}

// parentKey resolves the declared parent, defaulting its group to the
// panel's own.
func (spec PanelSpec) parentKey() panel.Key {
	group := spec.ParentGroup
	if group == "" {
		group = spec.Group
	}
	return panel.NewKey(spec.Parent, group)
}
