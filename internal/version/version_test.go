package version

import (
	"runtime/debug"
	"testing"

	"github.com/fatih/color"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestCurrentFallsBackToVCSStamps(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.25.1",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()
	GitCommit = ""

	b := Current()
	if b.Commit != "0123456789abcdef0123" || b.Date != "2025-03-01T10:00:00Z" || b.GoVersion != "go1.25.1" {
		t.Fatalf("unexpected build %+v", b)
	}
	if got := b.ShortCommit(); got != "0123456789ab+dirty" {
		t.Fatalf("ShortCommit() = %q", got)
	}

	GitCommit = " deadbeef "
	if got := Current().Commit; got != "deadbeef" {
		t.Fatalf("linker value must win, got %q", got)
	}
}

func TestCurrentWithoutBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)
	orig := Version
	defer func() { Version = orig }()
	Version = "  "

	b := Current()
	if b.Version != "dev" || b.Commit != "" || b.ShortCommit() != "" {
		t.Fatalf("unexpected build %+v", b)
	}
}

func TestPretty(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()
	color.NoColor = true

	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "nightly"} {
		if got := Pretty(v); got != v {
			t.Errorf("Pretty(%q) = %q", v, got)
		}
	}

	color.NoColor = false
	if got := Pretty("1.2.3"); got == "1.2.3" {
		t.Errorf("Pretty() = %q, want colored output", got)
	}
}
