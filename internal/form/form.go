// Package form holds resource drafts that can be filled by typing or by
// dictation.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"

	"voice-notes/internal/models"
	"voice-notes/internal/speech"
)

type Values map[string]string

type Field struct {
	Name    string
	Default string
	// Check returns a problem description, or "" when the value is fine.
	Check func(value string) string
}

// Schema describes a form producing T. Apply merges a finished transcript
// into the current values. Build turns checked values into T.
type Schema[T any] struct {
	Fields []Field
	Apply  func(v Values, transcript string)
	Build  func(v Values) (T, error)
}

type Form[T any] struct {
	schema Schema[T]

	mu     sync.Mutex
	values Values
	acc    *speech.Accumulator
	unsub  func()
	done   chan struct{}
	// last applied capture
	applied struct {
		session    int
		transcript string
	}
}

func New[T any](schema Schema[T]) *Form[T] {
	f := &Form[T]{schema: schema}
	f.values = f.defaults()
	return f
}

func (f *Form[T]) defaults() Values {
	v := make(Values, len(f.schema.Fields))
	for _, fld := range f.schema.Fields {
		v[fld.Name] = fld.Default
	}
	return v
}

func (f *Form[T]) field(name string) (Field, bool) {
	for _, fld := range f.schema.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

func (f *Form[T]) Get(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

func (f *Form[T]) Set(name, value string) error {
	if _, ok := f.field(name); !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	return nil
}

// Values returns a copy of the current values.
func (f *Form[T]) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// ApplyTranscript merges dictated text into the form. Blank text is ignored.
func (f *Form[T]) ApplyTranscript(transcript string) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" || f.schema.Apply == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schema.Apply(f.values, transcript)
}

// Build checks every field and returns the finished value.
func (f *Form[T]) Build() (T, error) {
	vals := f.Values()
	v := models.NewValidator()
	for _, fld := range f.schema.Fields {
		if fld.Check == nil {
			continue
		}
		msg := fld.Check(vals[fld.Name])
		v.Check(msg == "", fld.Name, msg)
	}
	if err := v.Err(); err != nil {
		var zero T
		return zero, err
	}
	return f.schema.Build(vals)
}

// Bind follows acc and applies each capture's transcript once the capture
// stops listening. Binding again replaces the previous binding.
func (f *Form[T]) Bind(acc *speech.Accumulator) {
	f.Unbind()

	updates, unsub := acc.Subscribe()
	done := make(chan struct{})

	f.mu.Lock()
	f.acc = acc
	f.unsub = unsub
	f.done = done
	f.mu.Unlock()

	lifecycle.Go(context.Background(), func(context.Context) error {
		defer close(done)
		for snap := range updates {
			f.follow(snap)
		}
		return nil
	})
}

func (f *Form[T]) follow(snap speech.Snapshot) {
	if snap.State == speech.StateListening || strings.TrimSpace(snap.Transcript) == "" {
		return
	}
	f.mu.Lock()
	seen := f.applied.session == snap.Session && f.applied.transcript == snap.Transcript
	if !seen {
		f.applied.session = snap.Session
		f.applied.transcript = snap.Transcript
	}
	f.mu.Unlock()
	if !seen {
		f.ApplyTranscript(snap.Transcript)
	}
}

// Unbind detaches the form from its accumulator. Snapshots already
// published are applied before it returns.
func (f *Form[T]) Unbind() {
	f.mu.Lock()
	unsub, done := f.unsub, f.done
	f.acc, f.unsub, f.done = nil, nil, nil
	f.mu.Unlock()

	if unsub != nil {
		unsub()
		<-done
	}
}

// Reset restores defaults and clears the bound capture, if any.
func (f *Form[T]) Reset() {
	f.mu.Lock()
	f.values = f.defaults()
	acc := f.acc
	f.mu.Unlock()

	if acc != nil {
		acc.ResetCapture()
	}
}
