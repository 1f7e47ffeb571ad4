package dag

import (
	"sort"

	"jsema/internal/project"
)

type UnitID uint32

// UnitIndex numbers compilation units by path and maps every declared
// class to the unit declaring it.
type UnitIndex struct {
	PathToID map[string]UnitID
	IDToPath []string
	// ClassToID keeps the first declaring unit in path order.
	ClassToID map[string]UnitID
}

// BuildIndex sorts the unit paths and hands out IDs in that order, so the
// numbering does not depend on the order units were added in.
func BuildIndex(metas []project.UnitMeta) UnitIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	pathToID := make(map[string]UnitID, len(paths))
	for i, path := range paths {
		pathToID[path] = UnitID(i)
	}

	byPath := make(map[string]project.UnitMeta, len(metas))
	for _, meta := range metas {
		if _, dup := byPath[meta.Path]; !dup {
			byPath[meta.Path] = meta
		}
	}
	classToID := map[string]UnitID{}
	for i, path := range paths {
		for _, d := range byPath[path].Declares {
			if _, taken := classToID[d.Name]; !taken {
				classToID[d.Name] = UnitID(i)
			}
		}
	}

	return UnitIndex{
		PathToID:  pathToID,
		IDToPath:  paths,
		ClassToID: classToID,
	}
}
