package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
)

type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateErrored   State = "errored"
)

// Snapshot is a copy of the capture session at one point in time.
type Snapshot struct {
	State      State         `json:"state"`
	Transcript string        `json:"transcript"`
	Interim    string        `json:"interim,omitempty"`
	LastError  *CaptureError `json:"lastError,omitempty"`
	Finals     int           `json:"finals"`
	Restarts   int           `json:"restarts"`
	// Session counts successful StartCapture calls.
	Session    int           `json:"session"`
}

// Accumulator runs one capture session at a time against a Recognizer and
// accumulates its final results into a transcript.
//
// Events are applied by a single goroutine per session. Each session has a
// generation number; events and stream ends from a superseded session are
// discarded.
type Accumulator struct {
	rec Recognizer
	log *slog.Logger

	mu      sync.Mutex
	snap    Snapshot
	gen     uint64
	cancel  context.CancelFunc
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

var (
	_ introspection.Introspectable = (*Accumulator)(nil)
	_ introspection.Component      = (*Accumulator)(nil)
)

type Option func(*Accumulator)

func WithLogger(log *slog.Logger) Option {
	return func(a *Accumulator) { a.log = log }
}

// New returns an idle accumulator. A nil Recognizer is allowed: every
// StartCapture then fails with ErrUnsupportedCapability.
func New(rec Recognizer, opts ...Option) *Accumulator {
	a := &Accumulator{
		rec:  rec,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		snap: Snapshot{State: StateIdle},
		subs: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartCapture stops any active session, clears the transcript and begins
// listening. It returns ErrUnsupportedCapability when the host has no
// recognizer. The transcript is then kept and a session that was listening
// ends as if StopCapture had been called.
func (a *Accumulator) StartCapture(ctx context.Context) error {
	if a.rec == nil {
		return ErrUnsupportedCapability
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	a.stopLocked()

	sessCtx, cancel := context.WithCancel(ctx)
	events, err := a.rec.Start(sessCtx)
	if err != nil {
		cancel()
		if errors.Is(err, ErrUnsupportedCapability) {
			// the previous session is already stopped
			if a.snap.State == StateListening {
				a.snap.State = StateIdle
				a.snap.Interim = ""
				a.publishLocked()
			}
			return ErrUnsupportedCapability
		}
		a.snap.State = StateErrored
		a.snap.LastError = &CaptureError{Code: CodeStartFailed, Message: err.Error(), Err: err}
		a.publishLocked()
		return a.snap.LastError
	}

	a.gen++
	a.cancel = cancel
	a.snap = Snapshot{State: StateListening, Session: a.snap.Session + 1}
	a.publishLocked()
	a.log.Debug("capture started", "generation", a.gen)

	gen := a.gen
	lifecycle.Go(sessCtx, func(ctx context.Context) error {
		return a.run(ctx, gen, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		a.log.Error("capture session panic", "generation", gen, "error", err)
	}))
	return nil
}

// StopCapture ends the active session and keeps the transcript. It is a
// no-op unless the accumulator is listening.
func (a *Accumulator) StopCapture() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.snap.State != StateListening {
		return
	}
	a.stopLocked()
	a.snap.State = StateIdle
	a.snap.Interim = ""
	a.publishLocked()
}

// ResetCapture clears the transcript, interim text and last error. A
// listening session keeps listening.
func (a *Accumulator) ResetCapture() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap.Transcript = ""
	a.snap.Interim = ""
	a.snap.LastError = nil
	a.snap.Finals = 0
	if a.snap.State == StateErrored {
		a.snap.State = StateIdle
	}
	a.publishLocked()
}

// Close stops any active session and closes every subscription.
func (a *Accumulator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.snap.State == StateListening {
		a.stopLocked()
		a.snap.State = StateIdle
		a.snap.Interim = ""
	}
	a.closed = true
	for id, ch := range a.subs {
		close(ch)
		delete(a.subs, id)
	}
}

func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Subscribe returns a channel that always holds the latest snapshot. Slow
// readers miss intermediate values, never the last one.
func (a *Accumulator) Subscribe() (<-chan Snapshot, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if a.closed {
		close(ch)
		return ch, func() {}
	}
	id := a.nextSub
	a.nextSub++
	a.subs[id] = ch
	ch <- a.snap

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if c, ok := a.subs[id]; ok {
				close(c)
				delete(a.subs, id)
			}
		})
	}
}

// State implements introspection.Introspectable.
func (a *Accumulator) State() any {
	return a.Snapshot()
}

// ComponentType implements introspection.Component.
func (a *Accumulator) ComponentType() string {
	return "speech-accumulator"
}

func (a *Accumulator) run(ctx context.Context, gen uint64, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			a.expire(gen)
			return nil
		case ev, ok := <-events:
			if !ok {
				next, ok := a.restart(ctx, gen)
				if !ok {
					return nil
				}
				events = next
				continue
			}
			if !a.apply(gen, ev) {
				return nil
			}
		}
	}
}

func (a *Accumulator) apply(gen uint64, ev Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen || a.snap.State != StateListening {
		return false
	}

	if ev.Err != nil {
		a.log.Warn("capture failed", "code", ev.Err.Code, "message", ev.Err.Message)
		a.stopLocked()
		a.snap.State = StateErrored
		a.snap.LastError = ev.Err
		a.snap.Interim = ""
		a.publishLocked()
		return false
	}

	var interim strings.Builder
	for _, r := range ev.Results {
		if !r.Final {
			interim.WriteString(r.Transcript)
			continue
		}
		if t := strings.TrimSpace(r.Transcript); t != "" {
			a.snap.Transcript += t + " "
			a.snap.Finals++
		}
	}
	a.snap.Interim = interim.String()
	a.publishLocked()
	return true
}

// restart reopens the stream after the provider closed it on its own.
func (a *Accumulator) restart(ctx context.Context, gen uint64) (<-chan Event, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen || a.snap.State != StateListening {
		return nil, false
	}

	events, err := a.rec.Start(ctx)
	if err != nil {
		a.log.Warn("capture restart failed", "error", err)
		a.stopLocked()
		a.snap.State = StateErrored
		a.snap.LastError = &CaptureError{Code: CodeStartFailed, Message: err.Error(), Err: err}
		a.snap.Interim = ""
		a.publishLocked()
		return nil, false
	}
	a.snap.Restarts++
	a.snap.Interim = ""
	a.publishLocked()
	a.log.Debug("capture restarted", "generation", gen, "restarts", a.snap.Restarts)
	return events, true
}

// expire handles the caller's context ending under a live session.
func (a *Accumulator) expire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen || a.snap.State != StateListening {
		return
	}
	a.stopLocked()
	a.snap.State = StateIdle
	a.snap.Interim = ""
	a.publishLocked()
}

// stopLocked tears down the current session, if any. The generation is
// bumped so late events from it are dropped.
func (a *Accumulator) stopLocked() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	a.cancel = nil
	a.gen++
	a.rec.Stop()
}

func (a *Accumulator) publishLocked() {
	for _, ch := range a.subs {
		select {
		case <-ch:
		default:
		}
		ch <- a.snap
	}
}
