package driver

import "time"

// Stage is one pass of a file pipeline.
type Stage string

const (
	StageLoad     Stage = "load"
	StageScan     Stage = "scan"
	StageIncludes Stage = "includes"
	StageResolve  Stage = "resolve"
	StagePlan     Stage = "plan"
	StageApply    Stage = "apply"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Added is the number of directives the plan inserts; set with StatusDone.
	Added int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; FixFiles calls OnEvent from worker goroutines.
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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
