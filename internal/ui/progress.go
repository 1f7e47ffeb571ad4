// Package ui renders session progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jsema/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// stageInfo is how a working row is labelled and how far along it counts.
var stageInfo = map[session.Stage]struct {
	label  string
	weight float64
}{
	session.StageIndex:       {"loading", 0.2},
	session.StageMaterialize: {"forcing", 0.5},
	session.StageResolve:     {"resolving", 0.8},
}

const statusColumn = 10

type row struct {
	item    string
	stage   session.Stage
	status  session.Status
	elapsed time.Duration
	err     error
}

func (r row) finished() bool {
	return r.status == session.StatusDone || r.status == session.StatusError
}

func (r row) label() string {
	if r.status == session.StatusWorking {
		if info, ok := stageInfo[r.stage]; ok {
			return info.label
		}
	}
	return string(r.status)
}

func (r row) style() lipgloss.Style {
	switch r.status {
	case session.StatusDone:
		return okStyle
	case session.StatusError:
		return failStyle
	case session.StatusWorking:
		return busyStyle
	}
	return idleStyle
}

type progressModel struct {
	title   string
	events  <-chan session.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	byItem  map[string]int
	phase   string
	width   int
	done    bool
}

type eventMsg session.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model over the session's progress
// events. Rows for items not passed up front appear with their first event;
// the model quits once events is closed.
func NewProgressModel(title string, items []string, events <-chan session.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = busyStyle

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byItem:  make(map[string]int, len(items)),
		width:   80,
	}
	for _, it := range items {
		m.row(it)
	}
	return m
}

func (m *progressModel) row(item string) *row {
	i, ok := m.byItem[item]
	if !ok {
		i = len(m.rows)
		m.byItem[item] = i
		m.rows = append(m.rows, row{item: item, status: session.StatusQueued})
	}
	return &m.rows[i]
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(session.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev. Events without an item only rename the current phase.
func (m *progressModel) apply(ev session.Event) tea.Cmd {
	if ev.Item == "" {
		if info, ok := stageInfo[ev.Stage]; ok && ev.Status == session.StatusWorking {
			m.phase = info.label
		}
		return nil
	}
	r := m.row(ev.Item)
	r.stage, r.status = ev.Stage, ev.Status
	if r.finished() {
		r.elapsed, r.err = ev.Elapsed, ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

// percent counts finished rows fully and working rows by stage weight.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		switch {
		case r.finished():
			sum++
		case r.status == session.StatusWorking:
			sum += stageInfo[r.stage].weight
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
		if r.status == session.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) header() string {
	head := m.title
	if m.phase != "" {
		head += " (" + m.phase + ")"
	}
	finished, failed := m.counts()
	summary := fmt.Sprintf("%d/%d", finished, len(m.rows))
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	if m.done {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}
	return titleStyle.Render(head) + " " + dimStyle.Render(summary)
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-14, 20)
	for _, r := range m.rows {
		status := r.style().Render(fmt.Sprintf("%*s", statusColumn, r.label()))
		line := "  " + status + " " + truncate(r.item, nameWidth)
		if r.finished() && r.elapsed > 0 {
			line += " " + dimStyle.Render(r.elapsed.Round(time.Millisecond).String())
		}
		b.WriteString(line + "\n")
		if r.err != nil {
			b.WriteString(strings.Repeat(" ", statusColumn+3))
			b.WriteString(failStyle.Render(truncate(r.err.Error(), nameWidth)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens value to width display cells, marking the cut with
// "...". A width of zero or less disables truncation.
func truncate(value string, width int) string {
	switch {
	case width <= 0, runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
