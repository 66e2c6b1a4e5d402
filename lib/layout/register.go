// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/panelforge/lib/node"
	"github.com/bureau-foundation/panelforge/lib/panel"
	"github.com/bureau-foundation/panelforge/lib/tui"
)

// ValidationError carries the issues found by [Validate].
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid layout: %s", strings.Join(e.Issues, "; "))
}

// Register validates the layout and registers every panel in order.
// Each panel renders as a text box (title, body, optional border)
// colored from theme. Registration stops at the first rejected panel;
// errors from the registry keep their [*panel.ConfigurationError].
func (file *File) Register(registry *panel.Registry, theme tui.Theme) error {
	if issues := Validate(file); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}

	for index, spec := range file.Panels {
		descriptor, err := spec.descriptor(theme)
		if err != nil {
			return fmt.Errorf("panels[%d]: %w", index, err)
		}
		if _, err := registry.Register(descriptor); err != nil {
			return fmt.Errorf("panels[%d]: %w", index, err)
		}
	}
	return nil
}

func (spec PanelSpec) descriptor(theme tui.Theme) (panel.Descriptor, error) {
	descriptor := panel.Descriptor{
		Name:    spec.Name,
		Group:   spec.Group,
		Visible: spec.Visible,
		Rules: panel.Rules{
			ExclusiveGroup: spec.ExclusiveGroup,
			ZIndex:         spec.ZIndex,
		},
		Constructor: spec.constructor(theme),
	}
	if spec.Parent != "" {
		descriptor.Rules.Parent = &panel.ParentRule{
			Name:   spec.Parent,
			Group:  spec.ParentGroup,
			Anchor: spec.Anchor,
		}
	}
	if spec.Fade != nil {
		period, err := spec.Fade.period()
		if err != nil {
			return panel.Descriptor{}, fmt.Errorf("fade.period: %w", err)
		}
		descriptor.Fade = &panel.Fade{Period: period, DampingRatio: spec.Fade.DampingRatio}
	}
	return descriptor, nil
}

func (spec PanelSpec) constructor(theme tui.Theme) panel.Constructor {
	return func(registered *panel.Panel, context *panel.Context) panel.Renderer {
		return panel.RendererFunc(func() *node.Node {
			return spec.render(registered, context, theme)
		})
	}
}

// render builds the panel's text box.
func (spec PanelSpec) render(registered *panel.Panel, context *panel.Context, theme tui.Theme) *node.Node {
	var lines []string
	if spec.Title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(spec.Title))
	}
	if spec.Body != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.NormalText).Render(spec.Body))
	}
	if len(lines) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.FaintText).Render(spec.Name))
	}

	props := node.Props{
		Name: registered.Key().String(),
		Text: strings.Join(lines, "\n"),
	}

	style := lipgloss.NewStyle()
	styled := false
	if border, ok := borderStyle(spec.Border); ok {
		color := theme.BorderColor
		if registered.IsChild() {
			color = theme.ChildBorderColor
		}
		style = style.Border(border).BorderForeground(color).Padding(0, 1)
		styled = true
	}
	if spec.Width > 0 {
		style = style.Width(context.Px(float64(spec.Width)))
		styled = true
	}
	if styled {
		props.Style = &style
	}
	return node.New(props)
}

func borderStyle(name string) (lipgloss.Border, bool) {
	switch name {
	case "normal":
		return lipgloss.NormalBorder(), true
	case "rounded":
		return lipgloss.RoundedBorder(), true
	case "thick":
		return lipgloss.ThickBorder(), true
	case "double":
		return lipgloss.DoubleBorder(), true
	default:
		return lipgloss.Border{}, false
	}
}
