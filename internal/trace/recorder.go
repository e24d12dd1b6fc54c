package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Options configure a Recorder.
type Options struct {
	Level Level
	// Stream receives every admitted event as it happens. Nil disables
	// streaming. Closed by Recorder.Close when it is an io.Closer.
	Stream io.Writer
	Format Format // FormatAuto means text
	// Keep is how many recent events stay in memory for DumpRecent.
	// Zero keeps none.
	Keep int
}

// Recorder writes the journal of one command. All methods are safe for
// concurrent use and on a nil *Recorder, which records nothing.
type Recorder struct {
	level  Level
	stream io.Writer
	format Format

	mu      sync.Mutex
	seq     uint64
	lastID  uint64
	recent  []Event
	next    int
	wrapped bool
	open    map[uint64]openStep
}

type openStep struct {
	name  string
	attrs Attrs
	since time.Time
}

// NewRecorder returns nil for LevelOff. LevelError never streams.
func NewRecorder(opts Options) *Recorder {
	if opts.Level == LevelOff {
		return nil
	}
	r := &Recorder{
		level:  opts.Level,
		stream: opts.Stream,
		format: opts.Format,
		open:   make(map[uint64]openStep),
	}
	if opts.Level == LevelError {
		r.stream = nil
		if opts.Keep <= 0 {
			opts.Keep = 4096
		}
	}
	if opts.Keep > 0 {
		r.recent = make([]Event, opts.Keep)
	}
	return r
}

// Level reports the configured level; LevelOff for nil.
func (r *Recorder) Level() Level {
	if r == nil {
		return LevelOff
	}
	return r.level
}

// KeepsRecent reports whether DumpRecent has anything to offer.
func (r *Recorder) KeepsRecent() bool {
	return r != nil && len(r.recent) > 0
}

func (r *Recorder) admits(layer Layer) bool {
	return r != nil && r.level.admits(layer)
}

func (r *Recorder) newID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	return r.lastID
}

// record stamps ev and stores it. Start and finish events also maintain
// the set of open steps that pulses report.
func (r *Recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	switch ev.Kind {
	case KindStart:
		r.open[ev.ID] = openStep{name: ev.Step, attrs: ev.Attrs, since: ev.At}
	case KindFinish:
		delete(r.open, ev.ID)
	}
	if len(r.recent) > 0 {
		r.recent[r.next] = ev
		r.next = (r.next + 1) % len(r.recent)
		if r.next == 0 {
			r.wrapped = true
		}
	}
	if r.stream != nil {
		// журнал не должен ронять команду
		_, _ = r.stream.Write(Encode(&ev, r.format)) //nolint:errcheck
	}
}

// Recent returns the kept events, oldest first.
func (r *Recorder) Recent() []Event {
	if !r.KeepsRecent() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.wrapped {
		return append([]Event(nil), r.recent[:r.next]...)
	}
	out := make([]Event, 0, len(r.recent))
	out = append(out, r.recent[r.next:]...)
	return append(out, r.recent[:r.next]...)
}

// DumpRecent writes the kept events to w as text.
func (r *Recorder) DumpRecent(w io.Writer) error {
	events := r.Recent()
	for i := range events {
		if _, err := w.Write(Encode(&events[i], FormatText)); err != nil {
			return err
		}
	}
	return nil
}

// Pulse records a keep-alive every interval until the returned stop is
// called. Each pulse names the oldest step still open, which is the one a
// hung run is waiting on. Pulses bypass the level filter.
func (r *Recorder) Pulse(interval time.Duration) (stop func()) {
	if r == nil || interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				r.record(r.pulse(now))
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}

func (r *Recorder) pulse(now time.Time) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := Event{At: now, Kind: KindPulse, Layer: LayerCommand, Step: "idle"}
	var oldest time.Time
	for id, s := range r.open {
		if oldest.IsZero() || s.since.Before(oldest) {
			oldest = s.since
			ev.ID, ev.Step, ev.Attrs = id, s.name, s.attrs
		}
	}
	if !oldest.IsZero() {
		ev.Outcome = fmt.Sprintf("open for %s", now.Sub(oldest).Round(time.Millisecond))
	}
	return ev
}

// Close closes the stream when it is an io.Closer.
func (r *Recorder) Close() error {
	if r == nil || r.stream == nil {
		return nil
	}
	if c, ok := r.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
