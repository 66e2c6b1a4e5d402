// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package panel

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/panelforge/lib/node"
)

func TestRender_AnchoredChild(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{
		Name:        "Parent",
		Group:       "Rules",
		Visible:     true,
		Constructor: boxConstructor("parent body"),
	})
	mustRegister(t, registry, Descriptor{
		Name:  "Child",
		Group: "Rules",
		Rules: Rules{Parent: &ParentRule{Name: "Parent", Anchor: true}},
	})
	forge := New(registry)

	roots, err := forge.Render(RenderRequest{Renders: Select(NewKey("Parent", "Rules"))})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("Render returned %d roots, want 1", len(roots))
	}

	parent, ok := forge.Record(NewKey("Parent", "Rules"))
	if !ok {
		t.Fatal("Parent not loaded")
	}
	childRecord, ok := forge.Record(NewKey("Child", "Rules"))
	if !ok {
		t.Fatal("Child not loaded")
	}

	root := roots[0]
	if root != parent.Container {
		t.Error("root is not the parent's container")
	}
	if !root.Contains(parent.Instance) {
		t.Error("root does not contain the parent's instance")
	}
	if !root.Contains(childRecord.Instance) {
		t.Error("root does not contain the child's instance")
	}
	if childRecord.Container == root {
		t.Error("child container returned as a root")
	}

	anchor := childRecord.Anchor
	if anchor == nil {
		t.Fatal("anchored child has no anchor")
	}
	if anchor == parent.Instance || parent.Instance.Contains(anchor) {
		t.Error("anchor is the parent's live instance")
	}
	if !anchor.Contains(childRecord.Instance) {
		t.Error("child instance is not hosted in the anchor")
	}
	if anchor.Text != "" || anchor.Style != nil {
		t.Errorf("anchor kept decoration: text %q, style %v", anchor.Text, anchor.Style)
	}
	if len(anchor.Children()) != 1 {
		t.Errorf("anchor has %d children, want only the child instance", len(anchor.Children()))
	}

	container := childRecord.Container
	if !container.Overlay || container.OffsetX != 1 || container.OffsetY != 1 {
		t.Errorf("child container overlay=%v offset=(%d,%d), want overlay at (1,1)",
			container.Overlay, container.OffsetX, container.OffsetY)
	}
	if container.ZIndex != LowestZIndex || root.ZIndex != RootZIndex {
		t.Errorf("z = child %d, root %d", container.ZIndex, root.ZIndex)
	}
}

func TestRender_AnchoredChildDrawsInsideParent(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "Parent", Visible: true, Constructor: boxConstructor("parent body")})
	mustRegister(t, registry, Descriptor{
		Name:        "Child",
		Visible:     true,
		Rules:       Rules{Parent: &ParentRule{Name: "Parent", Anchor: true}},
		Constructor: textConstructor("child"),
	})
	forge := New(registry)

	roots, err := forge.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(ansi.Strip(roots[0].View()), "\n")
	if len(lines) != 3 {
		t.Fatalf("view has %d lines, want the parent's 3:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.HasPrefix(lines[1], "│child") {
		t.Errorf("content line = %q, want the child drawn inside the border", lines[1])
	}

	if err := forge.Close(Named("Child")); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if view := ansi.Strip(roots[0].View()); !strings.Contains(view, "parent body") {
		t.Errorf("hidden child still covers the parent:\n%s", view)
	}
}

func TestRender_UnanchoredChildFlowsBelowParent(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "Log", Visible: true})
	mustRegister(t, registry, Descriptor{Name: "Filter", Visible: true, Rules: child("Log")})
	forge := New(registry)

	roots, err := forge.Render(RenderRequest{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := plainView(roots[0]); got != "Log\nFilter" {
		t.Errorf("view = %q", got)
	}
	if record, _ := forge.Record(Named("Filter")); record.Anchor != nil || record.Container.Overlay {
		t.Error("unanchored child was anchored")
	}

	if err := forge.Close(Named("Log")); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := roots[0].View(); got != "" {
		t.Errorf("hidden root rendered %q", got)
	}
}

func TestRender_Selection(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "HUD", Group: "Game", Visible: true})
	mustRegister(t, registry, Descriptor{Name: "Minimap", Group: "Game", Rules: child("HUD")})
	mustRegister(t, registry, Descriptor{Name: "Menu", Group: "Title"})
	mustRegister(t, registry, Descriptor{Name: "HUD", Group: "Replay"})
	forge := New(registry)

	tests := []struct {
		name      string
		selection Selection
		want      []string
	}{
		{"everything", Selection{}, []string{"HUD@Game", "Menu@Title", "HUD@Replay"}},
		{"by group", Selection{Groups: []string{"Game"}}, []string{"HUD@Game"}},
		{"by name", Selection{Names: []string{"HUD"}}, []string{"HUD@Game", "HUD@Replay"}},
		{"both", Selection{Names: []string{"HUD", "Menu"}, Groups: []string{"Title", "Replay"}}, []string{"Menu@Title", "HUD@Replay"}},
		{"children are never roots", Selection{Names: []string{"Minimap"}}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roots, err := forge.Render(RenderRequest{Renders: test.selection})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			var names []string
			for _, root := range roots {
				names = append(names, root.Name)
			}
			if strings.Join(names, ",") != strings.Join(test.want, ",") {
				t.Errorf("roots = %v, want %v", names, test.want)
			}
		})
	}
}

func TestRender_OnlyLoadsSelectedSubtree(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "A"})
	mustRegister(t, registry, Descriptor{Name: "A1", Rules: child("A")})
	mustRegister(t, registry, Descriptor{Name: "B"})
	mustRegister(t, registry, Descriptor{Name: "B1", Rules: child("B")})
	forge := New(registry)

	if _, err := forge.Render(RenderRequest{Renders: Select(Named("A"))}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	loaded := forge.Loaded()
	for _, name := range []string{"A", "A1"} {
		if _, ok := loaded[Named(name)]; !ok {
			t.Errorf("%s not loaded", name)
		}
	}
	for _, name := range []string{"B", "B1"} {
		if _, ok := loaded[Named(name)]; ok {
			t.Errorf("%s loaded outside the selection", name)
		}
	}
}

func TestRender_LogsPanelsAndPass(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "Parent", Visible: true, Constructor: textConstructor("parent")})
	mustRegister(t, registry, Descriptor{
		Name:        "Child",
		Rules:       Rules{Parent: &ParentRule{Name: "Parent", Anchor: true}},
		Constructor: textConstructor("child"),
	})
	mustRegister(t, registry, Descriptor{Name: "Other", Constructor: textConstructor("other")})

	var output bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	forge := New(registry, WithLogger(logger))
	if _, err := forge.Render(RenderRequest{Renders: Select(Named("Parent"))}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var rendered []string
	var summary string
	for line := range strings.Lines(output.String()) {
		switch {
		case strings.Contains(line, `msg="rendered panel"`):
			rendered = append(rendered, line)
		case strings.Contains(line, `msg="render pass complete"`):
			summary = line
		}
	}
	if len(rendered) != 2 {
		t.Fatalf("rendered panel records = %d, want 2:\n%s", len(rendered), output.String())
	}
	if !strings.Contains(rendered[0], "panel=Child@None children=0 anchored=true elapsed=") {
		t.Errorf("first record = %q, want the anchored child", rendered[0])
	}
	if !strings.Contains(rendered[1], "panel=Parent@None children=1 anchored=false elapsed=") {
		t.Errorf("second record = %q, want the parent", rendered[1])
	}
	if !strings.Contains(summary, "panels=2 roots=1 created=0 elapsed=") {
		t.Errorf("summary = %q", summary)
	}
}

func TestRender_RebuildsEveryPass(t *testing.T) {
	registry := NewRegistry()
	constructions := 0
	mustRegister(t, registry, Descriptor{
		Name: "Counter",
		Constructor: func(panel *Panel, context *Context) Renderer {
			constructions++
			return RendererFunc(func() *node.Node { return node.New(node.Props{Text: "count"}) })
		},
	})
	forge := New(registry)

	if _, err := forge.Render(RenderRequest{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	first, _ := forge.Record(Named("Counter"))
	if _, err := forge.Render(RenderRequest{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, _ := forge.Record(Named("Counter"))

	if constructions != 2 {
		t.Errorf("constructions = %d, want 2", constructions)
	}
	if first == second || first.Instance == second.Instance {
		t.Error("second pass reused the first pass's record")
	}
}

func TestRender_PassesContext(t *testing.T) {
	registry := NewRegistry()
	var seen *Context
	mustRegister(t, registry, Descriptor{
		Name: "Scaled",
		Constructor: func(panel *Panel, context *Context) Renderer {
			seen = context
			return nil
		},
	})
	forge := New(registry)

	_, err := forge.Render(RenderRequest{
		Props: "theme-dark",
		Scale: func(value float64) int { return int(value * 2) },
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if seen == nil || seen.Forge != forge || seen.Props != "theme-dark" || seen.Px(3) != 6 {
		t.Errorf("context = %+v", seen)
	}
	if record, _ := forge.Record(Named("Scaled")); record.Instance == nil {
		t.Error("nil renderer produced no placeholder instance")
	}
	if (*Context)(nil).Px(2.6) != 3 {
		t.Error("nil context does not round")
	}
}

func TestRender_OrphanChild(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "Root"})
	mustRegister(t, registry, Descriptor{Name: "Orphan", Rules: child("Missing")})
	forge := New(registry)

	_, err := forge.Render(RenderRequest{})
	if !errors.Is(err, ErrMissingParent) {
		t.Fatalf("error = %v, want ErrMissingParent", err)
	}
	if !strings.Contains(err.Error(), "Orphan@None") || !strings.Contains(err.Error(), "Missing@None") {
		t.Errorf("error %q does not name both panels", err)
	}
}

func TestRender_LateRegistrationSeedsAndSettles(t *testing.T) {
	registry := NewRegistry()
	mustRegister(t, registry, Descriptor{Name: "First", Visible: true, Rules: Rules{ExclusiveGroup: "g"}})
	forge := New(registry)

	mustRegister(t, registry, Descriptor{Name: "Late", Visible: true})
	if err := forge.Open(Named("Late")); !errors.Is(err, ErrMissingSource) {
		t.Errorf("Open before render error = %v, want ErrMissingSource", err)
	}

	if _, err := forge.Render(RenderRequest{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !forge.Visible(Named("Late")) {
		t.Error("late panel not seeded from its initial visibility")
	}
	if err := forge.Close(Named("Late")); err != nil {
		t.Errorf("Close after render: %v", err)
	}
}
