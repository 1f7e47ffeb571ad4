package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"jsema/internal/session"
)

func TestProgressModelTracksItems(t *testing.T) {
	events := make(chan session.Event)
	m := NewProgressModel("index check", []string{"a.toml"}, events).(*progressModel)

	m.Update(eventMsg{Item: "a.toml", Stage: session.StageMaterialize, Status: session.StatusWorking})
	m.Update(eventMsg{Item: "b.toml", Stage: session.StageMaterialize, Status: session.StatusQueued})
	if len(m.rows) != 2 {
		t.Fatalf("expected unknown item to be appended, got %d rows", len(m.rows))
	}
	if got := m.rows[0].label(); got != "forcing" {
		t.Fatalf("a.toml label = %q, want forcing", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.Update(eventMsg{Item: "a.toml", Stage: session.StageMaterialize, Status: session.StatusDone, Elapsed: 1500 * time.Microsecond})
	m.Update(eventMsg{Item: "b.toml", Stage: session.StageMaterialize, Status: session.StatusError, Err: errors.New("class demo.Missing not found")})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	if finished, failed := m.counts(); finished != 2 || failed != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", finished, failed)
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("expected the model to quit on doneMsg")
	}
	view := m.View()
	for _, want := range []string{"done: index check", "b.toml", "demo.Missing", "2ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestPhaseEventsDoNotAddRows(t *testing.T) {
	m := NewProgressModel("check", nil, nil).(*progressModel)
	m.Update(eventMsg{Stage: session.StageResolve, Status: session.StatusWorking})
	if len(m.rows) != 0 || m.phase != "resolving" {
		t.Fatalf("rows = %d, phase = %q", len(m.rows), m.phase)
	}
	if m.View() != "" {
		t.Fatal("expected an empty view without rows")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"stubs/very/long/path.toml", 10, "stubs/v..."},
		{"short", 10, "short"},
		{"abcdef", 2, "ab"},
		{"abcdef", 0, "abcdef"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}
