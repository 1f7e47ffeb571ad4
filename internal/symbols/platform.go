package symbols

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"jsema/internal/diag"
	"jsema/internal/source"
)

//go:embed platform/*.toml
var platformFS embed.FS

// PlatformIndexes decodes the embedded index of the core library. Each file
// is registered in files under diag.PlatformPathPrefix so diagnostics can
// point into it.
func PlatformIndexes(files *source.FileSet) ([]*Index, error) {
	names, err := fs.Glob(platformFS, "platform/*.toml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]*Index, 0, len(names))
	for _, name := range names {
		content, err := platformFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		id := files.AddVirtual(diag.PlatformPathPrefix+path.Base(name), content)
		idx, err := DecodeIndex(files, id)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// PlatformFiles lists the embedded index files.
func PlatformFiles() []string {
	names, _ := fs.Glob(platformFS, "platform/*.toml") //nolint:errcheck
	sort.Strings(names)
	return names
}
