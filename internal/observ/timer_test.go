package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	var (
		mu  sync.Mutex
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	id := tm.Begin("load")
	tm.End(id, "3 indexes")
	tm.End(id, "twice")
	err := tm.Time("resolve", func() (string, error) { return "", errors.New("boom") })
	if err == nil {
		t.Fatalf("Time swallowed the error")
	}
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	if rep.Phases[0].Note != "3 indexes" || rep.Phases[1].Note != "failed" {
		t.Fatalf("notes = %q, %q", rep.Phases[0].Note, rep.Phases[1].Note)
	}
	if rep.BusyMS != 2 || rep.WallMS != 3 {
		t.Fatalf("busy = %v, wall = %v", rep.BusyMS, rep.WallMS)
	}
}

func TestTimerOverlappingPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	outer := tm.Begin("resolve")
	a := tm.Begin("unit:A.java")
	b := tm.Begin("unit:B.java")
	tm.End(a, "")
	tm.End(b, "")
	tm.Begin("unit:C.java")
	tm.End(outer, "")

	rep := tm.Report()
	if rep.WallMS != 6 {
		t.Fatalf("wall = %v, want 6", rep.WallMS)
	}
	if rep.BusyMS <= rep.WallMS {
		t.Fatalf("overlapping phases should be busier than the wall time: %+v", rep)
	}
	if rep.Phases[0].Share != 100 {
		t.Fatalf("outer share = %v", rep.Phases[0].Share)
	}
	if !rep.Phases[3].Running {
		t.Fatalf("unit:C.java should still be running")
	}
	if !strings.Contains(tm.Summary(), "// running") {
		t.Fatalf("summary:\n%s", tm.Summary())
	}
}

func TestTimerSummaryAligns(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("unit:Main.java"), "")
	tm.End(tm.Begin("ö"), "")

	lines := strings.Split(strings.TrimSpace(tm.Summary()), "\n")
	if len(lines) != 5 || lines[0] != "timings:" {
		t.Fatalf("summary:\n%s", tm.Summary())
	}
	// Summary pads by display cells, not bytes
	msCol := func(l string) int { return runewidth.StringWidth(l[:strings.Index(l, " ms")]) }
	col := msCol(lines[1])
	for _, l := range lines[2:] {
		if got := msCol(l); got != col {
			t.Fatalf("columns differ: %d vs %d\n%s", got, col, tm.Summary())
		}
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("unit"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}
