package dag

import (
	"testing"

	"jsema/internal/project"
)

func idsToPaths(idx UnitIndex, ids []UnitID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToPath[int(id)]
	}
	return out
}

func batchesToPaths(idx UnitIndex, batches [][]UnitID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToPaths(idx, batch)
	}
	return out
}

func unit(path string, declares []string, uses ...string) project.UnitMeta {
	meta := project.UnitMeta{Path: path}
	for _, d := range declares {
		meta.Declares = append(meta.Declares, project.DeclMeta{Name: d})
	}
	for _, u := range uses {
		meta.Uses = append(meta.Uses, project.UseMeta{Name: u})
	}
	return meta
}

func TestBuildIndexSortsPaths(t *testing.T) {
	metas := []project.UnitMeta{
		unit("b/B.java", []string{"b.B"}),
		unit("a/A.java", []string{"a.A", "a.A$Inner"}),
	}

	idx := BuildIndex(metas)

	want := []string{"a/A.java", "b/B.java"}
	for i, path := range want {
		if got := idx.IDToPath[i]; got != path {
			t.Fatalf("idx.IDToPath[%d] = %q, want %q", i, got, path)
		}
	}
	if id := idx.ClassToID["a.A$Inner"]; id != 0 {
		t.Fatalf("a.A$Inner declared by unit %d, want 0", id)
	}
	if id, ok := idx.ClassToID["b.B"]; !ok || id != 1 {
		t.Fatalf("b.B = %d (%v), want 1", id, ok)
	}
}

func TestProvidersComeFirst(t *testing.T) {
	metas := []project.UnitMeta{
		unit("app/Main.java", []string{"app.Main"}, "lib.List", "util.Strings", "java.lang.String"),
		unit("lib/List.java", []string{"lib.List"}),
		unit("util/Strings.java", []string{"util.Strings"}, "lib.List"),
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, metas)
	topo := ToposortKahn(g)

	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idsToPaths(idx, topo.Cycles))
	}
	got := batchesToPaths(idx, topo.Batches)
	want := [][]string{{"lib/List.java"}, {"util/Strings.java"}, {"app/Main.java"}}
	if len(got) != len(want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
	for i := range want {
		if len(got[i]) != 1 || got[i][0] != want[i][0] {
			t.Fatalf("batch %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIndependentUnitsShareABatch(t *testing.T) {
	metas := []project.UnitMeta{
		unit("A.java", []string{"A"}),
		unit("B.java", []string{"B"}),
		unit("C.java", []string{"C"}, "A", "B"),
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, metas)
	topo := ToposortKahn(g)

	if len(topo.Batches) != 2 || len(topo.Batches[0]) != 2 {
		t.Fatalf("batches = %v", batchesToPaths(idx, topo.Batches))
	}
}

func TestCyclesAreScheduledLast(t *testing.T) {
	metas := []project.UnitMeta{
		unit("A.java", []string{"A"}, "B"),
		unit("B.java", []string{"B"}, "A"),
		unit("C.java", []string{"C"}),
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, metas)
	topo := ToposortKahn(g)

	if !topo.Cyclic {
		t.Fatalf("expected a cycle")
	}
	cycles := idsToPaths(idx, topo.Cycles)
	if len(cycles) != 2 || cycles[0] != "A.java" || cycles[1] != "B.java" {
		t.Fatalf("cycles = %v", cycles)
	}
	schedule := topo.Schedule()
	if len(schedule) != 2 {
		t.Fatalf("schedule = %v", batchesToPaths(idx, schedule))
	}
	if got := idsToPaths(idx, schedule[0]); len(got) != 1 || got[0] != "C.java" {
		t.Fatalf("first batch = %v", got)
	}
}

func TestDuplicateClassKeepsFirstProvider(t *testing.T) {
	metas := []project.UnitMeta{
		unit("b/X.java", []string{"p.X"}),
		unit("a/X.java", []string{"p.X"}),
		unit("Use.java", []string{"Use"}, "p.X"),
	}
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, metas)

	provider := idx.ClassToID["p.X"]
	if idx.IDToPath[int(provider)] != "a/X.java" {
		t.Fatalf("p.X provided by %q", idx.IDToPath[int(provider)])
	}
	user := idx.PathToID["Use.java"]
	if len(g.Edges[int(provider)]) != 1 || g.Edges[int(provider)][0] != user {
		t.Fatalf("edges = %v", g.Edges)
	}
	if g.Indeg[int(user)] != 1 {
		t.Fatalf("indeg = %v", g.Indeg)
	}
	for i, slot := range slots {
		if !slot.Present {
			t.Fatalf("slot %d (%s) missing", i, slot.Meta.Path)
		}
	}
}
