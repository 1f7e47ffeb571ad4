package session

import "time"

// Stage describes a high-level session phase.
type Stage string

const (
	// StageIndex decodes a stub index.
	StageIndex Stage = "index"
	// StageMaterialize forces the classes of an index or a unit.
	StageMaterialize Stage = "materialize"
	// StageResolve types the checks of a unit.
	StageResolve Stage = "resolve"
)

// Status describes the state of one item in a stage.
type Status string

const (
	// StatusQueued indicates the item is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the item is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the item is done.
	StatusDone Status = "done"
	// StatusError indicates the item failed or reported errors.
	StatusError Status = "error"
)

// Event is a progress update for one item: an index path or a unit path.
type Event struct {
	Item    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// WithProgress reports index and unit progress to sink.
func WithProgress(sink ProgressSink) Option {
	return func(s *Session) { s.progress = sink }
}

func (s *Session) emit(item string, stage Stage, status Status, err error, elapsed time.Duration) {
	if s.progress == nil {
		return
	}
	s.progress.OnEvent(Event{Item: item, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
