package trace

import (
	"context"
	"time"
)

type ctxKey struct{}

type ctxValue struct {
	rec    *Recorder
	parent uint64
}

// WithRecorder attaches r to ctx.
func WithRecorder(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, ctxKey{}, ctxValue{rec: r})
}

// FromContext returns the recorder in ctx, or nil.
func FromContext(ctx context.Context) *Recorder {
	v, _ := lookup(ctx)
	return v.rec
}

func lookup(ctx context.Context) (ctxValue, bool) {
	if ctx == nil {
		return ctxValue{}, false
	}
	v, ok := ctx.Value(ctxKey{}).(ctxValue)
	return v, ok
}

// Step is an open journal step. A nil *Step is inert.
type Step struct {
	rec     *Recorder
	id      uint64
	parent  uint64
	layer   Layer
	name    string
	attrs   Attrs
	started time.Time
}

// Start opens a step under the current one and returns a context in which
// it is current. Without a recorder, or when the level filters layer out,
// ctx comes back unchanged with a nil Step.
func Start(ctx context.Context, layer Layer, name string, attrs Attrs) (context.Context, *Step) {
	v, _ := lookup(ctx)
	if !v.rec.admits(layer) {
		return ctx, nil
	}
	s := &Step{
		rec:     v.rec,
		id:      v.rec.newID(),
		parent:  v.parent,
		layer:   layer,
		name:    name,
		attrs:   attrs,
		started: time.Now(),
	}
	v.rec.record(Event{At: s.started, Kind: KindStart, Layer: layer, Step: name, ID: s.id, Parent: s.parent, Attrs: attrs})
	return context.WithValue(ctx, ctxKey{}, ctxValue{rec: v.rec, parent: s.id}), s
}

// Finish records the end of s with outcome and returns how long it ran.
func (s *Step) Finish(outcome string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.rec.record(Event{
		At:      now,
		Kind:    KindFinish,
		Layer:   s.layer,
		Step:    s.name,
		ID:      s.id,
		Parent:  s.parent,
		Attrs:   s.attrs,
		Outcome: outcome,
		Elapsed: elapsed,
	})
	return elapsed
}

// Note records an instant event under the current step.
func Note(ctx context.Context, layer Layer, name string, attrs Attrs, outcome string) {
	v, _ := lookup(ctx)
	if !v.rec.admits(layer) {
		return
	}
	v.rec.record(Event{Kind: KindNote, Layer: layer, Step: name, Parent: v.parent, Attrs: attrs, Outcome: outcome})
}
