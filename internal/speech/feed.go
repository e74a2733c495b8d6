package speech

import (
	"context"
	"sync"
)

const feedBuffer = 64

// Feed is a Recognizer driven by the host program. Whatever the host reads
// (stdin lines, test input) is pushed in with Interim, Final and Fail.
// Pushes made while no stream is open are dropped and report false.
type Feed struct {
	mu  sync.Mutex
	cur *feedStream
}

var _ Recognizer = (*Feed)(nil)

func NewFeed() *Feed {
	return &Feed{}
}

type feedStream struct {
	mu      sync.Mutex
	events  chan Event
	closed  bool
	stopped chan struct{}
	once    sync.Once
}

func newFeedStream() *feedStream {
	return &feedStream{
		events:  make(chan Event, feedBuffer),
		stopped: make(chan struct{}),
	}
}

func (s *feedStream) send(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	case <-s.stopped:
		return false
	}
}

// stop releases a blocked sender. It must not take s.mu.
func (s *feedStream) stop() {
	s.once.Do(func() { close(s.stopped) })
}

func (s *feedStream) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

func (f *Feed) Start(ctx context.Context) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	old := f.cur
	f.cur = newFeedStream()
	events := f.cur.events
	f.mu.Unlock()

	if old != nil {
		old.stop()
		old.end()
	}
	return events, nil
}

func (f *Feed) Stop() {
	if s := f.detach(); s != nil {
		s.stop()
		s.end()
	}
}

// End closes the open stream as if the provider had stopped listening on
// its own.
func (f *Feed) End() {
	if s := f.detach(); s != nil {
		s.end()
	}
}

func (f *Feed) Interim(text string) bool {
	return f.Push(Event{Results: []Result{{Transcript: text}}})
}

func (f *Feed) Final(text string) bool {
	return f.Push(Event{Results: []Result{{Transcript: text, Final: true}}})
}

func (f *Feed) Fail(code, message string) bool {
	return f.Push(Event{Err: &CaptureError{Code: code, Message: message}})
}

// Push delivers a raw event, for providers that batch results.
func (f *Feed) Push(ev Event) bool {
	f.mu.Lock()
	s := f.cur
	f.mu.Unlock()
	if s == nil {
		return false
	}
	return s.send(ev)
}

func (f *Feed) detach() *feedStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.cur
	f.cur = nil
	return s
}
