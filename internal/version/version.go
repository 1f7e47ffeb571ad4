// Package version reports what build of jsema is running.
package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Set at build time via -ldflags "-X jsema/internal/version.Version=...".
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

// Build is the resolved build metadata. Empty fields are unknown.
type Build struct {
	Version   string
	Commit    string
	Message   string
	Date      string
	Modified  bool
	GoVersion string
}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Current merges the -ldflags values with the VCS stamps the Go toolchain
// embeds; linker-provided values win.
func Current() Build {
	b := Build{
		Version: strings.TrimSpace(Version),
		Commit:  strings.TrimSpace(GitCommit),
		Message: strings.TrimSpace(GitMessage),
		Date:    strings.TrimSpace(BuildDate),
	}
	if b.Version == "" {
		b.Version = "dev"
	}
	info, ok := readBuildInfo()
	if !ok {
		return b
	}
	b.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// ShortCommit is the first 12 characters of the commit, with "+dirty" for
// builds from a modified tree.
func (b Build) ShortCommit() string {
	c := b.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	if c != "" && b.Modified {
		c += "+dirty"
	}
	return c
}

var segmentColors = [3]*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Pretty colors the major, minor and patch numbers of v. A pre-release or
// build suffix is left plain; anything that is not x.y.z is returned as is.
func Pretty(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return v
	}
	suffix := ""
	if i := strings.IndexAny(parts[2], "-+"); i >= 0 {
		parts[2], suffix = parts[2][:i], parts[2][i:]
	}
	for i, p := range parts {
		parts[i] = segmentColors[i].Sprint(p)
	}
	return strings.Join(parts, ".") + suffix
}
