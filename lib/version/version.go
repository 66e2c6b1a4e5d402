// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
)

// Build metadata injected with -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/panelforge/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Values left empty are filled from the module's embedded VCS stamp
// when the binary has one.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	GitDirty  = ""
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Version   string
	Commit    string
	Dirty     bool
	Time      string
	GoVersion string
	Platform  string
}

// Current returns the build description, preferring ldflags values
// over the VCS stamp and "unknown" over nothing.
func Current() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		Time:      BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		build.fillFromSettings(info.Settings)
	}
	if build.Commit == "" {
		build.Commit = "unknown"
	}
	if build.Time == "" {
		build.Time = "unknown"
	}
	return build
}

func (build *Build) fillFromSettings(settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "" && len(setting.Value) >= 7 {
				build.Commit = setting.Value[:7]
			}
		case "vcs.modified":
			if GitDirty == "" {
				build.Dirty = setting.Value == "true"
			}
		case "vcs.time":
			if build.Time == "" {
				build.Time = setting.Value
			}
		}
	}
}

// String returns "0.1.0-dev (abc1234-dirty, 2026-02-10T...)".
func (build Build) String() string {
	commit := build.Commit
	if build.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", build.Version, commit, build.Time)
}

// Print writes the --version output for binary to stdout.
func Print(binary string) {
	Fprint(os.Stdout, binary)
}

// Fprint writes "<binary> <build>" followed by the Go version and
// platform.
func Fprint(writer io.Writer, binary string) {
	build := Current()
	fmt.Fprintf(writer, "%s %s\n  Go: %s\n  Platform: %s\n", binary, build, build.GoVersion, build.Platform)
}
