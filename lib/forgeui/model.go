// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forgeui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/panelforge/lib/clock"
	"github.com/bureau-foundation/panelforge/lib/node"
	"github.com/bureau-foundation/panelforge/lib/panel"
	"github.com/bureau-foundation/panelforge/lib/tui"
)

// DefaultFrameRate is the fade animation rate when Options.FrameRate
// is zero.
const DefaultFrameRate = 60

// listWidth is the width of the panel list pane, scrollbar included.
const listWidth = 34

// Options configures a preview [Model].
type Options struct {
	// Renders selects the root panels shown in the preview pane. The
	// list always shows every registered panel.
	Renders panel.Selection

	// Story renders through [panel.Forge.Story] instead of
	// [panel.Forge.Render], so panels registered after the forge was
	// built are brought under the rules first.
	Story bool

	// Props and Scale pass through to panel constructors.
	Props any
	Scale func(float64) int

	// FrameRate bounds redraws while a fade is in flight.
	FrameRate int

	// Theme defaults to [tui.DefaultTheme] when zero.
	Theme tui.Theme

	// Keys defaults to [DefaultKeyMap] when nil.
	Keys *KeyMap

	// Clock drives row flashes. Defaults to the real clock.
	Clock clock.Clock

	// Logger receives panel actions and their failures. Defaults to
	// discarding.
	Logger *slog.Logger
}

// frameTickMsg redraws the preview while fades or row flashes are
// still moving.
type frameTickMsg struct{}

// row is one line of the panel list.
type row struct {
	key   panel.Key
	depth int
	label string
}

// changeLog collects visibility changes reported by subscriptions
// during a forge call. The model drains it after each action.
type changeLog struct {
	changes []change
}

type change struct {
	key     panel.Key
	visible bool
}

// Model is the bubbletea model for the panel preview. All forge
// access happens inside Update, on the program's goroutine.
type Model struct {
	forge   *panel.Forge
	options Options
	keys    KeyMap
	theme   tui.Theme
	clock   clock.Clock
	logger  *slog.Logger

	width  int
	height int
	ready  bool

	rows         []row
	cursor       int // Index into the visible (finder-filtered) rows.
	scrollOffset int
	finder       *FinderModel

	preview *node.Node

	changes       *changeLog
	subscriptions map[panel.Key]func()
	flashes       *tui.FlashTracker
	tickRunning   bool

	status      string
	statusLevel slog.Level
	statusSeq   uint64
}

// NewModel builds the preview over forge and performs the first
// render. The returned model holds subscriptions on the forge's cells
// until [Model.Close].
func NewModel(forge *panel.Forge, options Options) (Model, error) {
	model := Model{
		forge:         forge,
		options:       options,
		keys:          DefaultKeyMap,
		theme:         options.Theme,
		clock:         options.Clock,
		logger:        options.Logger,
		finder:        &FinderModel{},
		changes:       &changeLog{},
		subscriptions: make(map[panel.Key]func()),
		flashes:       tui.NewFlashTracker(),
	}
	if options.Keys != nil {
		model.keys = *options.Keys
	}
	if model.theme == (tui.Theme{}) {
		model.theme = tui.DefaultTheme
	}
	if model.clock == nil {
		model.clock = clock.Real()
	}
	if model.logger == nil {
		model.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if model.options.FrameRate <= 0 {
		model.options.FrameRate = DefaultFrameRate
	}

	if err := model.mount(); err != nil {
		model.Close()
		return Model{}, err
	}
	return model, nil
}

// mount renders the preview tree and refreshes the list and
// subscriptions from the registry.
func (model *Model) mount() error {
	if model.options.Story {
		story, err := model.forge.Story(panel.StoryRequest{
			Props:   model.options.Props,
			Renders: model.options.Renders,
			Config:  panel.StoryConfig{Scale: model.options.Scale},
		})
		if err != nil {
			return err
		}
		model.preview = story
	} else {
		roots, err := model.forge.Render(panel.RenderRequest{
			Props:   model.options.Props,
			Renders: model.options.Renders,
			Scale:   model.options.Scale,
		})
		if err != nil {
			return err
		}
		model.preview = node.New(node.Props{Name: "preview"}, roots...)
	}

	model.rows = buildRows(model.forge.Registry())
	model.subscribe()
	model.clampCursor()
	// Changes made while settling a fresh render are not user actions.
	model.changes.changes = nil
	return nil
}

// subscribe watches every listed panel that has a visibility cell and
// is not watched yet.
func (model *Model) subscribe() {
	changes := model.changes
	for _, listed := range model.rows {
		if _, watched := model.subscriptions[listed.key]; watched {
			continue
		}
		panelKey := listed.key
		cancel, err := model.forge.Subscribe(panelKey, func(visible bool) {
			changes.changes = append(changes.changes, change{key: panelKey, visible: visible})
		})
		if err != nil {
			// Registered after the forge was built and not rendered yet.
			model.logger.Debug("panel not watched", "panel", panelKey, "error", err)
			continue
		}
		model.subscriptions[panelKey] = cancel
	}
}

// Close cancels the model's forge subscriptions.
func (model Model) Close() {
	for panelKey, cancel := range model.subscriptions {
		cancel()
		delete(model.subscriptions, panelKey)
	}
}

// buildRows lists root panels in registration order with their
// descendants indented beneath them. Panels whose parent is not
// registered are listed as roots so they stay reachable.
func buildRows(registry *panel.Registry) []row {
	var rows []row
	listed := make(map[panel.Key]bool)
	var walk func(*panel.Panel, int)
	walk = func(current *panel.Panel, depth int) {
		if listed[current.Key()] {
			return
		}
		listed[current.Key()] = true
		rows = append(rows, row{key: current.Key(), depth: depth, label: current.Key().String()})
		for _, child := range registry.Children(current.Key()) {
			walk(child, depth+1)
		}
	}
	for _, registered := range registry.Panels() {
		if !registered.IsChild() {
			walk(registered, 0)
		}
	}
	for _, registered := range registry.Panels() {
		walk(registered, 0)
	}
	return rows
}

// Init starts the frame ticker if a fade is already in flight.
func (model Model) Init() tea.Cmd {
	if model.forge.Animating() {
		return scheduleFrameTick(model.options.FrameRate)
	}
	return nil
}

// Update handles input, ticks, and log records.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.clampCursor()
		return model, nil

	case tea.KeyMsg:
		if model.finder.Active {
			return model.handleFinderKeys(message)
		}
		return model.handleListKeys(message)

	case frameTickMsg:
		return model.handleFrameTick()

	case logRecordMsg:
		// Records are delivered asynchronously and may arrive out of order.
		if message.sequence < model.statusSeq {
			return model, nil
		}
		model.status = message.Summary
		model.statusLevel = message.Level
		model.statusSeq = message.sequence
		sequence := message.sequence
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.sequence == model.statusSeq {
			model.status = ""
		}
		return model, nil
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.cursor--
		model.clampCursor()

	case key.Matches(message, model.keys.Down):
		model.cursor++
		model.clampCursor()

	case key.Matches(message, model.keys.Home):
		model.cursor = 0
		model.clampCursor()

	case key.Matches(message, model.keys.End):
		model.cursor = len(model.visibleRows()) - 1
		model.clampCursor()

	case key.Matches(message, model.keys.Toggle):
		return model.act("toggle", model.forge.Toggle)

	case key.Matches(message, model.keys.Open):
		return model.act("open", model.forge.Open)

	case key.Matches(message, model.keys.Close):
		return model.act("close", model.forge.Close)

	case key.Matches(message, model.keys.FinderActivate):
		model.finder.Active = true

	case key.Matches(message, model.keys.FinderClear):
		model.finder.Clear()
		model.clampCursor()

	case key.Matches(message, model.keys.Reload):
		if err := model.mount(); err != nil {
			model.logger.Error("reload failed", "error", err)
		}
		return model, model.startTicking()
	}
	return model, nil
}

// handleFinderKeys routes keystrokes to the finder query while it has
// focus. Esc clears the query, or leaves the finder when it is already
// empty; Enter keeps the query and returns to the list.
func (model Model) handleFinderKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.FinderClear):
		if model.finder.Input != "" {
			model.finder.Input = ""
		} else {
			model.finder.Active = false
		}

	case key.Matches(message, model.keys.FinderConfirm):
		model.finder.Active = false

	case message.Type == tea.KeyBackspace:
		model.finder.HandleBackspace()

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.finder.HandleRune(character)
		}

	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	default:
		return model, nil
	}
	model.cursor = 0
	model.clampCursor()
	return model, nil
}

// act applies a forge operation to the selected panel and lights up
// every row whose visibility changed as a result.
func (model Model) act(verb string, operation func(panel.Key) error) (tea.Model, tea.Cmd) {
	selected, ok := model.selected()
	if !ok {
		return model, nil
	}
	model.changes.changes = nil
	if err := operation(selected.key); err != nil {
		model.logger.Warn(verb+" failed", "panel", selected.key, "error", err)
		return model, nil
	}

	now := model.clock.Now()
	for _, changed := range model.changes.changes {
		kind := tui.FlashClosed
		if changed.visible {
			kind = tui.FlashOpened
		}
		model.flashes.Light(changed.key.String(), kind, now)
	}
	if len(model.changes.changes) > 1 {
		model.logger.Debug("cascade", "panel", selected.key, "changed", len(model.changes.changes))
	}
	model.changes.changes = nil
	return model, model.startTicking()
}

// startTicking schedules a frame tick unless one is already pending.
func (model *Model) startTicking() tea.Cmd {
	if model.tickRunning || !model.moving() {
		return nil
	}
	model.tickRunning = true
	return scheduleFrameTick(model.options.FrameRate)
}

// moving reports whether anything on screen is still animating.
func (model Model) moving() bool {
	return model.forge.Animating() || model.flashes.Active(model.clock.Now())
}

func (model Model) handleFrameTick() (tea.Model, tea.Cmd) {
	if model.moving() {
		return model, scheduleFrameTick(model.options.FrameRate)
	}
	model.tickRunning = false
	return model, nil
}

func scheduleFrameTick(frameRate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(frameRate), func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
}

// visibleRows returns the rows that pass the finder, best match first.
func (model Model) visibleRows() []finderMatch {
	labels := make([]string, len(model.rows))
	for index, listed := range model.rows {
		labels[index] = listed.label
	}
	return model.finder.Apply(labels)
}

// selected returns the row under the cursor.
func (model Model) selected() (row, bool) {
	visible := model.visibleRows()
	if model.cursor < 0 || model.cursor >= len(visible) {
		return row{}, false
	}
	return model.rows[visible[model.cursor].row], true
}

// listHeight is the number of list rows that fit on screen.
func (model Model) listHeight() int {
	// Header, separator, and help line.
	chrome := 3
	if model.finder.Active || model.finder.Input != "" {
		chrome++
	}
	return max(1, model.height-chrome)
}

// clampCursor keeps the cursor on a visible row and scrolls it into
// view.
func (model *Model) clampCursor() {
	count := len(model.visibleRows())
	model.cursor = max(0, min(model.cursor, count-1))
	height := model.listHeight()
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+height {
		model.scrollOffset = model.cursor - height + 1
	}
	model.scrollOffset = max(0, min(model.scrollOffset, count-height))
}

// View renders the header, list and preview panes, and the help or
// status line.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var sections []string
	if finderView := model.finder.View(model.theme, model.width); finderView != "" {
		sections = append(sections, finderView)
	}
	sections = append(sections, model.renderHeader())

	previewWidth := max(0, model.width-listWidth-1)
	divider := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.TrimSuffix(strings.Repeat("│\n", model.listHeight()), "\n"))
	previewPane := lipgloss.NewStyle().
		Width(previewWidth).
		MaxWidth(previewWidth).
		Height(model.listHeight()).
		MaxHeight(model.listHeight()).
		Render(model.preview.View())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, model.renderList(), divider, previewPane))

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width)))
	sections = append(sections, model.renderHelp())
	return strings.Join(sections, "\n")
}

func (model Model) renderHeader() string {
	visibleCount := 0
	for _, listed := range model.rows {
		if model.forge.Visible(listed.key) {
			visibleCount++
		}
	}
	title := fmt.Sprintf(" panels %d/%d visible", visibleCount, len(model.rows))
	if model.options.Story {
		title += "  (story)"
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Width(model.width).
		Render(title)
}

// renderList draws the visible window of the panel list with a
// scrollbar on its right edge.
func (model Model) renderList() string {
	height := model.listHeight()
	rowWidth := listWidth - 1
	visible := model.visibleRows()
	now := model.clock.Now()

	base := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	match := lipgloss.NewStyle().Foreground(model.theme.MatchForeground).Bold(true)

	lines := make([]string, 0, height)
	for index := model.scrollOffset; index < len(visible) && len(lines) < height; index++ {
		listed := model.rows[visible[index].row]
		isVisible := model.forge.Visible(listed.key)

		marker := "○"
		if isVisible {
			marker = "●"
		}
		line := strings.Repeat("  ", listed.depth) +
			lipgloss.NewStyle().Foreground(model.theme.MarkerColor(isVisible)).Render(marker) + " " +
			highlight(listed.label, visible[index].positions, base, match)

		style := lipgloss.NewStyle().Width(rowWidth).MaxWidth(rowWidth)
		switch {
		case index == model.cursor:
			style = style.
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
		case model.flashes.Intensity(listed.label, now) > 0:
			background := model.theme.FlashOpened
			if model.flashes.Kind(listed.label) == tui.FlashClosed {
				background = model.theme.FlashClosed
			}
			style = style.Background(background)
		}
		lines = append(lines, style.Render(line))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", rowWidth))
	}

	scrollbar := tui.RenderScrollbar(model.theme, height, len(visible), height, model.scrollOffset)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(lines, "\n"), scrollbar)
}

// renderHelp shows the latest log record while it is fresh, otherwise
// the key bindings.
func (model Model) renderHelp() string {
	if model.status != "" {
		color := model.theme.WarnForeground
		if model.statusLevel >= slog.LevelError {
			color = model.theme.ErrorForeground
		}
		return lipgloss.NewStyle().Foreground(color).MaxWidth(model.width).Render(" " + model.status)
	}

	bindings := []key.Binding{
		model.keys.Up, model.keys.Down, model.keys.Toggle, model.keys.Open,
		model.keys.Close, model.keys.FinderActivate, model.keys.Reload, model.keys.Quit,
	}
	if model.finder.Active {
		bindings = []key.Binding{model.keys.FinderConfirm, model.keys.FinderClear}
	}
	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		MaxWidth(model.width).
		Render(" " + strings.Join(parts, "  "))
}
