// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/panelforge/lib/clock"
	"github.com/bureau-foundation/panelforge/lib/node"
	"github.com/bureau-foundation/panelforge/lib/panel"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func text(body string) panel.Constructor {
	return func(current *panel.Panel, _ *panel.Context) panel.Renderer {
		return panel.RendererFunc(func() *node.Node {
			return node.New(node.Props{Name: current.Key().String() + "/instance", Text: body})
		})
	}
}

// workspace registers:
//
//	Editor (visible)
//	  Log (visible, child of Editor)
//	Outline (visible, exclusive "side")
//	Search (hidden, exclusive "side")
func workspace(t *testing.T) *panel.Registry {
	t.Helper()
	registry := panel.NewRegistry()
	descriptors := []panel.Descriptor{
		{Name: "Editor", Visible: true, Constructor: text("editor body")},
		{Name: "Log", Visible: true, Rules: panel.Rules{Parent: &panel.ParentRule{Name: "Editor"}}, Constructor: text("log body")},
		{Name: "Outline", Visible: true, Rules: panel.Rules{ExclusiveGroup: "side"}, Constructor: text("outline body")},
		{Name: "Search", Rules: panel.Rules{ExclusiveGroup: "side"}, Constructor: text("search body")},
	}
	for _, descriptor := range descriptors {
		if _, err := registry.Register(descriptor); err != nil {
			t.Fatalf("Register(%s): %v", descriptor.Name, err)
		}
	}
	return registry
}

// newTestModel builds a sized model over a fresh forge driven by a
// fake clock.
func newTestModel(t *testing.T, registry *panel.Registry, options Options) (Model, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(epoch)
	forge := panel.New(registry, panel.WithClock(fake))
	options.Clock = fake
	model, err := NewModel(forge, options)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	t.Cleanup(model.Close)
	return update(t, model, tea.WindowSizeMsg{Width: 100, Height: 20}), fake
}

func update(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(message)
	result, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return result
}

func runes(value string) tea.KeyMsg {
	if value == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

// press feeds each key to the model in order.
func press(t *testing.T, model Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, message := range keys {
		model = update(t, model, message)
	}
	return model
}

func assertVisible(t *testing.T, model Model, want map[string]bool) {
	t.Helper()
	for name, expected := range want {
		if got := model.forge.Visible(panel.Named(name)); got != expected {
			t.Errorf("%s visible = %v, want %v", name, got, expected)
		}
	}
}

func selectedLabel(t *testing.T, model Model) string {
	t.Helper()
	selected, ok := model.selected()
	if !ok {
		t.Fatal("no row selected")
	}
	return selected.label
}
