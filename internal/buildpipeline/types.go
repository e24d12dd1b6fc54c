package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageResolve is the vocabulary lookup stage.
	StageResolve Stage = "resolve"
	// StageTranslate is the keyword translation stage.
	StageTranslate Stage = "translate"
	// StageCompile is the host compiler stage.
	StageCompile Stage = "compile"
	// StageRun is the entry point invocation stage.
	StageRun Stage = "run"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// State is the position of one run in the orchestration state machine.
//
//	START -> TRANSLATED -> COMPILE_FAILED
//	                    -> COMPILED -> INVOKED
//	                                -> INVOCATION_FAILED
type State string

const (
	StateStart            State = "START"
	StateTranslated       State = "TRANSLATED"
	StateCompileFailed    State = "COMPILE_FAILED"
	StateCompiled         State = "COMPILED"
	StateInvoked          State = "INVOKED"
	StateInvocationFailed State = "INVOCATION_FAILED"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateCompileFailed, StateInvoked, StateInvocationFailed:
		return true
	}
	return false
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
