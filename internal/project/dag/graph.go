package dag

import (
	"slices"

	"jsema/internal/project"
)

// Graph has an edge from a unit to every unit that uses one of its classes.
type Graph struct {
	Edges   [][]UnitID // Edges[provider] = users
	Indeg   []int      // providers per unit, for Kahn
	Present []bool
}

type UnitSlot struct {
	Meta    project.UnitMeta
	Present bool
}

// BuildGraph links units through the classes they declare and use. Uses
// that no unit declares belong to the stub indexes and add no edge. A class
// declared by two units is provided by the first one in path order; the
// loader reports the duplicate.
func BuildGraph(idx UnitIndex, metas []project.UnitMeta) (Graph, []UnitSlot) {
	nodeCount := len(idx.IDToPath)
	g := Graph{
		Edges:   make([][]UnitID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]UnitSlot, nodeCount)
	for i, path := range idx.IDToPath {
		slots[i].Meta.Path = path
	}

	for _, meta := range metas {
		id, ok := idx.PathToID[meta.Path]
		if !ok || slots[int(id)].Present {
			continue
		}
		slot := &slots[int(id)]
		slot.Meta = meta
		slot.Present = true
		g.Present[int(id)] = true
	}

	for to := range slots {
		slot := &slots[to]
		if !slot.Present || len(slot.Meta.Uses) == 0 {
			continue
		}
		seen := make(map[UnitID]struct{}, len(slot.Meta.Uses))
		for _, use := range slot.Meta.Uses {
			from, ok := idx.ClassToID[use.Name]
			if !ok || int(from) == to {
				continue
			}
			if _, dup := seen[from]; dup {
				continue
			}
			seen[from] = struct{}{}
			g.Edges[int(from)] = append(g.Edges[int(from)], UnitID(to))
			g.Indeg[to]++
		}
	}
	for from := range g.Edges {
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}
