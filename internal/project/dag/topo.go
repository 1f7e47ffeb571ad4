package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of sorting a Graph.
type Topo struct {
	Order   []UnitID   // providers first
	Batches [][]UnitID // waves whose units do not depend on each other
	Cyclic  bool
	Cycles  []UnitID // units no wave could reach
}

// ToposortKahn peels the graph in waves: every wave holds the units whose
// providers all sit in earlier waves. Waves are sorted by ID so the schedule
// is stable across runs.
func ToposortKahn(g Graph) *Topo {
	pending := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]UnitID, 0, len(g.Edges))}

	wave := g.frontier(func(i int) bool { return pending[i] == 0 })
	for len(wave) > 0 {
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		var next []UnitID
		for _, from := range wave {
			for _, to := range g.Edges[from] {
				if !g.Present[to] {
					continue
				}
				if pending[to]--; pending[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		wave = next
	}

	topo.Cycles = g.frontier(func(i int) bool { return pending[i] > 0 })
	topo.Cyclic = len(topo.Cycles) > 0
	return topo
}

// frontier lists the present units matching keep, in ID order.
func (g Graph) frontier(keep func(int) bool) []UnitID {
	var out []UnitID
	for i, present := range g.Present {
		if present && keep(i) {
			out = append(out, unitID(i))
		}
	}
	return out
}

// Schedule is Batches followed by one batch holding the cyclic units.
// Mutually dependent classes are legal and symbols resolve lazily, so a
// cycle only loses the ordering.
func (t *Topo) Schedule() [][]UnitID {
	if !t.Cyclic {
		return t.Batches
	}
	return append(slices.Clip(t.Batches), slices.Clone(t.Cycles))
}

func unitID(i int) UnitID {
	id, err := safecast.Conv[UnitID](i)
	if err != nil {
		panic(fmt.Errorf("unit id overflow: %w", err))
	}
	return id
}
