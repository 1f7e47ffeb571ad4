package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // from the output path, text otherwise
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
	FormatChrome               // chrome://tracing / Perfetto event array
)

// ParseFormat converts a format name to Format; "" means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	case "chrome":
		return FormatChrome, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson|chrome)", s)
}

// formatForPath resolves FormatAuto by file extension.
func formatForPath(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

// FormatEvent encodes a single event without any framing.
func FormatEvent(ev *Event, f Format) []byte {
	return newEncoder(f, "").event(ev)
}

// encoder frames a sequence of events of one run.
type encoder interface {
	header() []byte
	// primed reports that header already holds an element, so the first
	// event needs a separator.
	primed() bool
	event(ev *Event) []byte
	separator() []byte
	footer() []byte
}

func newEncoder(f Format, run string) encoder {
	switch f {
	case FormatNDJSON:
		return ndjsonEncoder{run: run}
	case FormatChrome:
		return chromeEncoder{run: run}
	}
	return textEncoder{run: run}
}

type textEncoder struct{ run string }

func (e textEncoder) header() []byte {
	if e.run == "" {
		return nil
	}
	return []byte("# run " + e.run + "\n")
}

func (textEncoder) primed() bool      { return false }
func (textEncoder) separator() []byte { return nil }
func (textEncoder) footer() []byte    { return nil }

var kindMarks = [...]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// event renders "[seq] →/← name (detail) [dur] {k=v}".
func (textEncoder) event(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%6d] ", ev.Seq)
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " [%s]", ev.Dur)
	}
	if len(ev.Extra) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k + "=" + ev.Extra[k])
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

type ndjsonEncoder struct{ run string }

type ndjsonEvent struct {
	Run      string            `json:"run,omitempty"`
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	DurUS    int64             `json:"dur_us,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func (ndjsonEncoder) header() []byte    { return nil }
func (ndjsonEncoder) primed() bool      { return false }
func (ndjsonEncoder) separator() []byte { return nil }
func (ndjsonEncoder) footer() []byte    { return nil }

func (e ndjsonEncoder) event(ev *Event) []byte {
	data, _ := json.Marshal(ndjsonEvent{ //nolint:errcheck
		Run:      e.run,
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		DurUS:    ev.Dur.Microseconds(),
		Extra:    ev.Extra,
	})
	return append(data, '\n')
}

type chromeEncoder struct{ run string }

type chromeEvent struct {
	Name  string            `json:"name"`
	Cat   string            `json:"cat,omitempty"`
	Ph    string            `json:"ph"`
	Ts    int64             `json:"ts"`
	Pid   int               `json:"pid"`
	Tid   uint64            `json:"tid"`
	Scope string            `json:"s,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

func (e chromeEncoder) header() []byte {
	head := []byte("{\"traceEvents\":[\n")
	if e.run == "" {
		return head
	}
	// метаданные процесса: run id виден в Perfetto как имя процесса
	meta, _ := json.Marshal(chromeEvent{ //nolint:errcheck
		Name: "process_name",
		Ph:   "M",
		Pid:  1,
		Args: map[string]string{"name": "jsema " + e.run},
	})
	return append(head, meta...)
}

func (e chromeEncoder) primed() bool { return e.run != "" }

func (chromeEncoder) separator() []byte { return []byte(",\n") }
func (chromeEncoder) footer() []byte    { return []byte("\n]}\n") }

func (chromeEncoder) event(ev *Event) []byte {
	c := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		Ts:   ev.Time.UnixMicro(),
		Pid:  1,
		Tid:  ev.GID,
		Args: ev.Extra,
	}
	switch ev.Kind {
	case KindSpanBegin:
		c.Ph = "B"
	case KindSpanEnd:
		c.Ph = "E"
	default:
		c.Ph, c.Scope = "i", "t"
	}
	if ev.Detail != "" {
		c.Args = maps.Clone(ev.Extra)
		if c.Args == nil {
			c.Args = make(map[string]string, 1)
		}
		c.Args["detail"] = ev.Detail
	}
	data, _ := json.Marshal(c) //nolint:errcheck
	return data
}
