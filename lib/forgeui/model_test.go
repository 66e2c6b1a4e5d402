// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/panelforge/lib/panel"
	"github.com/bureau-foundation/panelforge/lib/tui"
)

func TestBuildRows_TreeOrder(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	want := []struct {
		label string
		depth int
	}{
		{"Editor@None", 0},
		{"Log@None", 1},
		{"Outline@None", 0},
		{"Search@None", 0},
	}
	if len(model.rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(model.rows), len(want))
	}
	for index, expected := range want {
		if model.rows[index].label != expected.label || model.rows[index].depth != expected.depth {
			t.Errorf("row %d = %s depth %d, want %s depth %d",
				index, model.rows[index].label, model.rows[index].depth, expected.label, expected.depth)
		}
	}
}

func TestModel_ToggleCascadesAndFlashes(t *testing.T) {
	model, fake := newTestModel(t, workspace(t), Options{})

	updated, command := model.Update(runes(" "))
	model = updated.(Model)
	if command == nil {
		t.Fatal("toggle should start the frame ticker")
	}
	assertVisible(t, model, map[string]bool{"Editor": false, "Log": false})

	now := fake.Now()
	for _, label := range []string{"Editor@None", "Log@None"} {
		if model.flashes.Intensity(label, now) != 1 {
			t.Errorf("%s not flashed", label)
		}
		if model.flashes.Kind(label) != tui.FlashClosed {
			t.Errorf("%s flash kind = %v, want FlashClosed", label, model.flashes.Kind(label))
		}
	}
	if model.flashes.Intensity("Outline@None", now) != 0 {
		t.Error("unrelated panel flashed")
	}

	model = press(t, model, runes(" "))
	assertVisible(t, model, map[string]bool{"Editor": true, "Log": true})
	if model.flashes.Kind("Log@None") != tui.FlashOpened {
		t.Error("restored child should flash as opened")
	}
}

func TestModel_OpenInExclusiveGroup(t *testing.T) {
	model, fake := newTestModel(t, workspace(t), Options{})

	model = press(t, model, runes("G"))
	if got := selectedLabel(t, model); got != "Search@None" {
		t.Fatalf("G selected %s, want Search@None", got)
	}
	model = press(t, model, runes("o"))
	assertVisible(t, model, map[string]bool{"Search": true, "Outline": false, "Editor": true})
	if model.flashes.Intensity("Outline@None", fake.Now()) == 0 {
		t.Error("panel closed by the exclusive group was not flashed")
	}

	model = press(t, model, runes("c"))
	assertVisible(t, model, map[string]bool{"Search": false, "Outline": false})
}

func TestModel_Navigation(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	model = press(t, model, runes("j"), runes("j"))
	if got := selectedLabel(t, model); got != "Outline@None" {
		t.Errorf("after jj selected %s, want Outline@None", got)
	}
	model = press(t, model, runes("j"), runes("j"), runes("j"))
	if got := selectedLabel(t, model); got != "Search@None" {
		t.Errorf("cursor ran past the end: %s", got)
	}
	model = press(t, model, runes("g"))
	if got := selectedLabel(t, model); got != "Editor@None" {
		t.Errorf("g selected %s, want Editor@None", got)
	}
	model = press(t, model, runes("k"))
	if model.cursor != 0 {
		t.Errorf("cursor ran past the top: %d", model.cursor)
	}
}

func TestModel_Finder(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	model = press(t, model, runes("/"), runes("s"), runes("r"), runes("c"), runes("h"))
	if !model.finder.Active || model.finder.Input != "srch" {
		t.Fatalf("finder = %+v, want active with srch", *model.finder)
	}
	if got := selectedLabel(t, model); got != "Search@None" {
		t.Fatalf("best match = %s, want Search@None", got)
	}

	// Keys go to the query while the finder has focus.
	if model.forge.Visible(panel.Named("Search")) {
		t.Fatal("typing into the finder changed visibility")
	}

	model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.finder.Active || model.finder.Input != "srch" {
		t.Fatalf("enter should keep the query and leave the finder: %+v", *model.finder)
	}
	model = press(t, model, runes(" "))
	assertVisible(t, model, map[string]bool{"Search": true, "Outline": false})

	model = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.finder.Input != "" || len(model.visibleRows()) != 4 {
		t.Errorf("esc should clear the query, got %q with %d rows", model.finder.Input, len(model.visibleRows()))
	}
}

func TestModel_FinderBackspaceAndEsc(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	model = press(t, model, runes("/"), runes("l"), runes("o"), tea.KeyMsg{Type: tea.KeyBackspace})
	if model.finder.Input != "l" {
		t.Fatalf("input = %q, want l", model.finder.Input)
	}
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if !model.finder.Active || model.finder.Input != "" {
		t.Fatalf("first esc should clear the query only: %+v", *model.finder)
	}
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.finder.Active {
		t.Fatal("second esc should leave the finder")
	}
}

func TestModel_View(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	view := ansi.Strip(model.View())
	for _, want := range []string{"panels 3/4 visible", "● Editor@None", "  ● Log@None", "○ Search@None", "editor body", "log body", "outline body"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "search body") {
		t.Errorf("hidden panel rendered:\n%s", view)
	}

	model = press(t, model, runes(" "))
	view = ansi.Strip(model.View())
	if strings.Contains(view, "editor body") || strings.Contains(view, "log body") {
		t.Errorf("closed panels still rendered:\n%s", view)
	}
	if !strings.Contains(view, "○ Editor@None") {
		t.Errorf("list marker not updated:\n%s", view)
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	forge := panel.New(workspace(t))
	model, err := NewModel(forge, Options{})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	defer model.Close()
	if model.View() != "Loading..." {
		t.Errorf("View before WindowSizeMsg = %q", model.View())
	}
}

func TestModel_RenderSelection(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{Renders: panel.Selection{Names: []string{"Outline"}}})

	view := ansi.Strip(model.View())
	if !strings.Contains(view, "outline body") || strings.Contains(view, "editor body") {
		t.Errorf("preview ignored the selection:\n%s", view)
	}
	// The list still shows everything.
	if len(model.rows) != 4 {
		t.Errorf("got %d rows, want 4", len(model.rows))
	}
}

func TestModel_FrameTickStopsWhenSettled(t *testing.T) {
	model, fake := newTestModel(t, workspace(t), Options{})

	updated, command := model.Update(runes(" "))
	model = updated.(Model)
	if command == nil || !model.tickRunning {
		t.Fatal("expected ticker to start")
	}

	updated, command = model.Update(frameTickMsg{})
	model = updated.(Model)
	if command == nil {
		t.Fatal("ticker stopped while a flash was still lit")
	}

	fake.Advance(tui.FlashDuration)
	updated, command = model.Update(frameTickMsg{})
	model = updated.(Model)
	if command != nil || model.tickRunning {
		t.Error("ticker kept running after everything settled")
	}
}

func TestModel_LogRecordStatus(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})

	model = update(t, model, logRecordMsg{Summary: "first", Level: slog.LevelWarn, sequence: 1})
	model = update(t, model, logRecordMsg{Summary: "second", Level: slog.LevelError, sequence: 2})
	if !strings.Contains(model.renderHelp(), "second") {
		t.Fatalf("status = %q, want second", model.renderHelp())
	}

	model = update(t, model, logRecordMsg{Summary: "late arrival", Level: slog.LevelWarn, sequence: 1})
	if !strings.Contains(model.renderHelp(), "second") {
		t.Error("an older record replaced a newer one")
	}

	model = update(t, model, logRecordFadeMsg{sequence: 1})
	if !strings.Contains(model.renderHelp(), "second") {
		t.Error("stale fade cleared a newer record")
	}
	model = update(t, model, logRecordFadeMsg{sequence: 2})
	if strings.Contains(model.renderHelp(), "second") || !strings.Contains(model.renderHelp(), "quit") {
		t.Errorf("fade did not restore help: %q", model.renderHelp())
	}
}

func TestModel_LateRegistration(t *testing.T) {
	registry := workspace(t)
	forge := panel.New(registry)
	if _, err := registry.Register(panel.Descriptor{Name: "Late", Visible: true, Constructor: text("late body")}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A plain render of another subtree leaves Late without a cell.
	model, err := NewModel(forge, Options{Renders: panel.Selection{Names: []string{"Editor"}}})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	defer model.Close()
	if _, watched := model.subscriptions[panel.Named("Late")]; watched {
		t.Error("Late should not be watched before it has a cell")
	}
	if err := forge.Toggle(panel.Named("Late")); !errors.Is(err, panel.ErrMissingSource) {
		t.Errorf("Toggle(Late) = %v, want ErrMissingSource", err)
	}

	// Story mode brings it under the rules.
	story, err := NewModel(forge, Options{Story: true})
	if err != nil {
		t.Fatalf("NewModel(story): %v", err)
	}
	defer story.Close()
	if _, watched := story.subscriptions[panel.Named("Late")]; !watched {
		t.Error("story mode should watch Late")
	}
	if !forge.Visible(panel.Named("Late")) {
		t.Error("Late should be visible after story")
	}
}

func TestModel_Reload(t *testing.T) {
	registry := workspace(t)
	model, _ := newTestModel(t, registry, Options{Story: true})

	if _, err := registry.Register(panel.Descriptor{Name: "Late", Constructor: text("late body")}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	model = press(t, model, runes("r"))
	if len(model.rows) != 5 || model.rows[4].label != "Late@None" {
		t.Fatalf("reload did not pick up Late: %+v", model.rows)
	}
	model = press(t, model, runes("G"), runes("o"))
	assertVisible(t, model, map[string]bool{"Late": true})
	if !strings.Contains(ansi.Strip(model.View()), "late body") {
		t.Error("reloaded preview does not render Late")
	}
}

func TestModel_Close(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})
	model.Close()
	if len(model.subscriptions) != 0 {
		t.Fatalf("%d subscriptions left after Close", len(model.subscriptions))
	}
	if err := model.forge.Toggle(panel.Named("Editor")); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(model.changes.changes) != 0 {
		t.Error("cancelled subscription still recorded a change")
	}
}

func TestModel_Quit(t *testing.T) {
	model, _ := newTestModel(t, workspace(t), Options{})
	_, command := model.Update(runes("q"))
	if command == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

// A failing action logs a warning from inside Update. The program must
// keep processing keys while that record travels to the status bar.
func TestModel_FailedActionInRunningProgram(t *testing.T) {
	registry := workspace(t)
	forge := panel.New(registry)
	if _, err := registry.Register(panel.Descriptor{Name: "Late", Visible: true, Constructor: text("late body")}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := NewTUILogHandler(slog.LevelWarn)
	model, err := NewModel(forge, Options{
		Renders: panel.Selection{Names: []string{"Editor"}},
		Logger:  slog.New(handler),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	t.Cleanup(model.Close)

	program := tea.NewProgram(model, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	handler.SetProgram(program)

	type result struct {
		model tea.Model
		err   error
	}
	done := make(chan result, 1)
	go func() {
		final, err := program.Run()
		done <- result{final, err}
	}()

	// End selects Late, whose open fails with ErrMissingSource.
	program.Send(tea.WindowSizeMsg{Width: 100, Height: 20})
	program.Send(runes("G"))
	program.Send(runes("o"))
	program.Send(runes("q"))

	select {
	case finished := <-done:
		if finished.err != nil {
			t.Fatalf("Run: %v", finished.err)
		}
		final, ok := finished.model.(Model)
		if !ok {
			t.Fatalf("final model is %T", finished.model)
		}
		if label := selectedLabel(t, final); label != "Late@None" {
			t.Errorf("selected %q, want Late@None", label)
		}
	case <-time.After(5 * time.Second):
		program.Kill()
		t.Fatal("program did not quit after a failed open")
	}
}
