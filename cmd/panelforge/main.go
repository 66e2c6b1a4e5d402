// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// panelforge previews a panel layout in the terminal. It loads the
// panels declared in a YAML or JSONC layout file, builds a forge over
// them, and opens an interactive viewer listing every panel next to the
// rendered result. Toggling a panel runs the same visibility rules an
// application would: closing a parent hides its children (and restores
// them on reopen), opening a member of an exclusive group closes the
// others.
//
// Visibility is saved to the state file on exit and restored on the
// next run, as long as the layout has not changed since.
//
// With --check the layout is validated and its panel tree printed
// without starting the viewer.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/panelforge/lib/config"
	"github.com/bureau-foundation/panelforge/lib/forgeui"
	"github.com/bureau-foundation/panelforge/lib/layout"
	"github.com/bureau-foundation/panelforge/lib/panel"
	"github.com/bureau-foundation/panelforge/lib/tui"
	"github.com/bureau-foundation/panelforge/lib/version"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var tool *toolError
		if errors.As(err, &tool) && tool.Hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", tool.Hint)
		}
		os.Exit(1)
	}
}

// flags holds the parsed command line. Empty strings mean "use the
// config value".
type flags struct {
	configPath string
	layoutPath string
	statePath  string
	story      string
	logOutput  string
	color      string
	check      bool
}

func run() error {
	var options flags
	flagSet := pflag.NewFlagSet("panelforge", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "path to panelforge.yaml (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	flagSet.StringVar(&options.layoutPath, "layout", "", "layout file to preview (overrides paths.layout)")
	flagSet.StringVar(&options.statePath, "state", "", "visibility state file (overrides paths.state; \"none\" disables)")
	flagSet.StringVar(&options.story, "story", "", "preview only this panel and its children (name@group)")
	flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.StringVar(&options.color, "color", "", "color mode: auto, always, never (overrides preview.color)")
	flagSet.BoolVar(&options.check, "check", false, "validate the layout, print the panel tree, and exit")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other tools.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("panelforge")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return validation("%w", err)
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return validation("unexpected argument: %s", args[0]).
			WithHint("Pass the layout with --layout.")
	}

	cfg, err := resolveConfig(options)
	if err != nil {
		return err
	}
	applyColorMode(cfg.Preview.Color)

	file, forgeRegistry, digest, err := loadLayout(cfg.Paths.Layout)
	if err != nil {
		var invalid *layout.ValidationError
		if options.check && errors.As(err, &invalid) {
			reportIssues(os.Stdout, cfg.Paths.Layout, invalid.Issues)
			return &exitError{Code: 1}
		}
		return err
	}

	if options.check {
		return runCheck(os.Stdout, forgeRegistry, digest, cfg)
	}
	return runPreview(cfg, file, forgeRegistry, digest)
}

// resolveConfig loads the config file (from --config, then the
// environment, else defaults) and applies flag overrides.
func resolveConfig(options flags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case options.configPath != "":
		cfg, err = config.LoadFile(options.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, validation("%w", err)
	}

	if options.layoutPath != "" {
		cfg.Paths.Layout = options.layoutPath
	}
	switch options.statePath {
	case "":
	case "none":
		cfg.Paths.State = ""
	default:
		cfg.Paths.State = options.statePath
	}
	if options.story != "" {
		cfg.Preview.Story = options.story
	}
	if options.logOutput != "" {
		cfg.Log.Output = options.logOutput
	}
	if options.color != "" {
		cfg.Preview.Color = config.ColorMode(options.color)
	}

	if err := cfg.Validate(); err != nil {
		return nil, validation("%w", err)
	}
	return cfg, nil
}

// applyColorMode pins lipgloss's color profile unless mode is auto.
func applyColorMode(mode config.ColorMode) {
	switch mode {
	case config.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// loadLayout reads path and registers its panels in a fresh registry.
func loadLayout(path string) (*layout.File, *panel.Registry, layout.Digest, error) {
	file, err := layout.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, layout.Digest{}, notFound("layout %s: %w", path, err).
				WithHint("Set paths.layout in the config file or pass --layout.")
		}
		return nil, nil, layout.Digest{}, validation("layout %s: %w", path, err)
	}

	registry := panel.NewRegistry()
	if err := file.Register(registry, tui.DefaultTheme); err != nil {
		var invalid *layout.ValidationError
		if errors.As(err, &invalid) {
			return nil, nil, layout.Digest{}, validation("layout %s: %w", path, err).
				WithHint("Run with --check to list every issue on its own line.")
		}
		return nil, nil, layout.Digest{}, validation("layout %s: %w", path, err)
	}

	digest, err := file.Digest()
	if err != nil {
		return nil, nil, layout.Digest{}, internal("%w", err)
	}
	return file, registry, digest, nil
}

// runCheck prints the settled panel tree. A story key that names no
// panel fails the check.
func runCheck(writer io.Writer, registry *panel.Registry, digest layout.Digest, cfg *config.Config) error {
	forge := panel.New(registry, panel.WithLogger(newCommandLogger(cfg.LogLevel())))
	if _, err := storySelection(registry, cfg.Preview.Story); err != nil {
		return err
	}
	printTree(writer, forge, digest)
	return nil
}

// storySelection resolves the story key, or selects everything when
// story is empty.
func storySelection(registry *panel.Registry, story string) (panel.Selection, error) {
	if story == "" {
		return panel.Selection{}, nil
	}
	key, err := panel.ParseKey(story)
	if err != nil {
		return panel.Selection{}, validation("--story: %w", err)
	}
	if _, err := registry.Lookup(key); err != nil {
		return panel.Selection{}, notFound("--story: %w", err).
			WithHint("Run with --check to list the registered panels.")
	}
	return panel.Select(key), nil
}

// runPreview runs the interactive viewer and saves visibility on exit.
// While the viewer owns the terminal, warnings go to its status bar
// and, with --log-output, every record goes to the log file.
func runPreview(cfg *config.Config, file *layout.File, registry *panel.Registry, digest layout.Digest) error {
	if err := cfg.EnsurePaths(); err != nil {
		return internal("%w", err)
	}

	tuiHandler := forgeui.NewTUILogHandler(slog.LevelWarn)
	var handler slog.Handler = tuiHandler
	if cfg.Log.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.Output, cfg.LogLevel())
		if err != nil {
			return validation("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		defer closeFile()
		handler = fanoutHandler{tuiHandler, fileHandler}
	}
	logger := slog.New(handler).With("layout", cfg.Paths.Layout)

	selection, err := storySelection(registry, cfg.Preview.Story)
	if err != nil {
		return err
	}

	forge := panel.New(registry, panel.WithLogger(logger))
	loadState(cfg.Paths.State, digest, forge, logger)

	model, err := forgeui.NewModel(forge, forgeui.Options{
		Renders:   selection,
		Story:     cfg.Preview.Story != "",
		FrameRate: cfg.Preview.FrameRate,
		Logger:    logger,
	})
	if err != nil {
		return internal("rendering %d panels: %w", len(file.Panels), err)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)
	final, err := program.Run()
	tuiHandler.SetProgram(nil)
	if finalModel, ok := final.(forgeui.Model); ok {
		finalModel.Close()
	}
	if err != nil {
		return internal("%w", err)
	}

	if cfg.Paths.State != "" {
		if err := saveState(cfg.Paths.State, digest, forge); err != nil {
			return internal("saving state: %w", err)
		}
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `panelforge: interactive preview for panel layouts.

Loads the panels declared in a layout file (YAML, or JSONC for .json
and .jsonc files) and shows each one next to its rendered result.
Toggling a panel applies the visibility rules: closing a parent hides
its children and reopening it restores them; opening a member of an
exclusive group closes the others.

Visibility is saved to the state file on exit and restored on the next
run unless the layout changed.

Usage:
  panelforge [flags]

Examples:
  # Preview the layout named in $%s
  panelforge

  # Preview a specific layout without saving state
  panelforge --layout ui/panels.yaml --state none

  # Preview one panel and its children
  panelforge --layout ui/panels.jsonc --story Inspector@Tools

  # Validate a layout in CI and print its panel tree
  panelforge --layout ui/panels.yaml --check --color never

Keys:
  j/k, ↑/↓   move          space/enter  toggle
  o / c      open / close  /            find
  r          reload        q            quit

Flags:
`, config.EnvironmentVariable)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
