package source

import (
	"path/filepath"
	"strings"
)

// PathStyle selects how a file path is shown to the user.
type PathStyle uint8

const (
	// PathAuto keeps short or relative paths and shortens long absolute ones
	// to their base name.
	PathAuto PathStyle = iota
	PathAbsolute
	PathRelative
	PathBase
)

var pathStyleNames = [...]string{PathAuto: "auto", PathAbsolute: "absolute", PathRelative: "relative", PathBase: "basename"}

func (p PathStyle) String() string {
	if int(p) < len(pathStyleNames) {
		return pathStyleNames[p]
	}
	return "auto"
}

const autoPathLimit = 40

// DisplayPath renders f.Path in style. Relative paths are computed against
// baseDir, or the working directory when it is empty. Paths that cannot be
// rendered in the requested style are returned as stored.
func (f *File) DisplayPath(style PathStyle, baseDir string) string {
	switch style {
	case PathAbsolute:
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathBase:
		return filepath.Base(f.Path)
	default:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

// AbsolutePath returns the cleaned absolute form of p.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or absolute when p lies outside
// it. An empty baseDir means the working directory.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := AbsolutePath(p)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return abs, nil
	}
	rel = normalizePath(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}
