// Package observ collects phase timings of a session.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// PhaseID identifies a phase begun on a Timer.
type PhaseID int

// Phase is one timed step. Dur stays zero until the phase ends.
type Phase struct {
	Name  string
	Note  string
	Start time.Time
	Dur   time.Duration
	ended bool
}

// Timer records phases that may overlap: unit phases run concurrently inside
// the resolve phase, so the wall time of a run is not the sum of its phases.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	phases []Phase
}

func NewTimer() *Timer {
	return &Timer{now: time.Now, phases: make([]Phase, 0, 8)}
}

func (t *Timer) Begin(name string) PhaseID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return PhaseID(len(t.phases) - 1)
}

// End closes a phase. Unknown or already ended phases are ignored.
func (t *Timer) End(id PhaseID, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || int(id) >= len(t.phases) {
		return
	}
	p := &t.phases[id]
	if p.ended {
		return
	}
	p.Dur, p.Note, p.ended = t.now().Sub(p.Start), note, true
}

// Time runs fn as a phase; a failing fn without a note is noted "failed".
func (t *Timer) Time(name string, fn func() (note string, err error)) error {
	id := t.Begin(name)
	note, err := fn()
	if err != nil && note == "" {
		note = "failed"
	}
	t.End(id, note)
	return err
}

// PhaseReport is one phase in milliseconds. Share is the percentage of the
// run's wall time the phase covered.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Share      float64 `json:"share"`
	Note       string  `json:"note,omitempty"`
	Running    bool    `json:"running,omitempty"`
}

// Report summarizes the phases in begin order. WallMS spans from the first
// start to the last end; BusyMS sums every ended phase.
type Report struct {
	WallMS float64       `json:"wall_ms"`
	BusyMS float64       `json:"busy_ms"`
	Phases []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var rep Report
	if len(t.phases) == 0 {
		return rep
	}
	first, last := t.phases[0].Start, t.phases[0].Start
	var busy time.Duration
	for _, p := range t.phases {
		first = minTime(first, p.Start)
		if p.ended {
			last = maxTime(last, p.Start.Add(p.Dur))
			busy += p.Dur
		}
	}
	wall := last.Sub(first)
	rep.WallMS, rep.BusyMS = millis(wall), millis(busy)
	rep.Phases = make([]PhaseReport, len(t.phases))
	for i, p := range t.phases {
		pr := PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note, Running: !p.ended}
		if wall > 0 {
			pr.Share = 100 * float64(p.Dur) / float64(wall)
		}
		rep.Phases[i] = pr
	}
	return rep
}

// Summary renders the report as an aligned table for --timings. Names are
// padded by display width since unit paths may hold wide runes.
func (t *Timer) Summary() string {
	rep := t.Report()
	width := len("wall")
	for _, p := range rep.Phases {
		width = max(width, runewidth.StringWidth(p.Name))
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range rep.Phases {
		fmt.Fprintf(&b, "  %s %9.2f ms %5.1f%%", runewidth.FillRight(p.Name, width), p.DurationMS, p.Share)
		switch {
		case p.Running:
			b.WriteString("  // running")
		case p.Note != "":
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %s %9.2f ms\n", runewidth.FillRight("wall", width), rep.WallMS)
	fmt.Fprintf(&b, "  %s %9.2f ms\n", runewidth.FillRight("busy", width), rep.BusyMS)
	return b.String()
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
