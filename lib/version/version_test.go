// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"
)

func TestBuild_String(t *testing.T) {
	tests := []struct {
		name  string
		build Build
		want  string
	}{
		{"clean", Build{Version: "1.2.0", Commit: "abc1234", Time: "2026-02-10T00:00:00Z"}, "1.2.0 (abc1234, 2026-02-10T00:00:00Z)"},
		{"dirty", Build{Version: "1.2.0", Commit: "abc1234", Dirty: true, Time: "unknown"}, "1.2.0 (abc1234-dirty, unknown)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.build.String(); got != test.want {
				t.Errorf("String() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestFillFromSettings(t *testing.T) {
	originalDirty := GitDirty
	defer func() { GitDirty = originalDirty }()
	GitDirty = ""

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-01T09:00:00Z"},
	}

	var build Build
	build.fillFromSettings(settings)
	if build.Commit != "0123456" || !build.Dirty || build.Time != "2026-03-01T09:00:00Z" {
		t.Errorf("filled build = %+v", build)
	}

	injected := Build{Commit: "fedcba9", Time: "release"}
	injected.fillFromSettings(settings)
	if injected.Commit != "fedcba9" || injected.Time != "release" {
		t.Errorf("VCS stamp overrode injected values: %+v", injected)
	}
}

func TestCurrent_Defaults(t *testing.T) {
	build := Current()
	if build.Version != Version || build.Commit == "" || build.Time == "" {
		t.Errorf("Current() = %+v", build)
	}
}

func TestFprint(t *testing.T) {
	var buffer bytes.Buffer
	Fprint(&buffer, "panelforge")
	output := buffer.String()
	if !strings.HasPrefix(output, "panelforge "+Version) {
		t.Errorf("output = %q", output)
	}
	if !strings.Contains(output, "Platform:") || !strings.HasSuffix(output, "\n") {
		t.Errorf("output missing platform line: %q", output)
	}
}
