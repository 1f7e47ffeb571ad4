package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tracer receives events. Implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode says where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they arrive
	ModeRing                          // kept in memory, dumped at exit
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a mode name to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	name := strings.ToLower(s)
	for i, n := range modeNames {
		if n != "" && n == name {
			return StorageMode(i), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config describes a tracer.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks by OutputPath extension
	Output     io.Writer     // stream target; OutputPath is used when nil
	OutputPath string        // "-" or "" for stderr
	RingSize   int           // ring capacity, default 4096
	Heartbeat  time.Duration // applied by the caller through StartHeartbeat
	RunID      string        // tags the output; generated when empty
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	ring := func() *RingTracer {
		r := NewRingTracer(cfg.RingSize, cfg.Level)
		r.run = cfg.RunID
		return r
	}

	switch cfg.Mode {
	case ModeRing:
		return ring(), nil
	case ModeStream, ModeBoth:
		stream, err := openStream(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewMultiTracer(cfg.Level, stream, ring()), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func openStream(cfg Config) (*StreamTracer, error) {
	format := formatForPath(cfg.Format, cfg.OutputPath)
	switch {
	case cfg.Output != nil:
		return newStream(cfg.Output, nil, cfg.Level, format, cfg.RunID), nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return newStream(os.Stderr, nil, cfg.Level, format, cfg.RunID), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return newStream(f, f, cfg.Level, format, cfg.RunID), nil
}
