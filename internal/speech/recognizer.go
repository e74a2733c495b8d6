// Package speech turns a stream of recognition results into an editable
// transcript.
package speech

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedCapability means no speech recognizer is available on this
// host. It is terminal and never retried.
var ErrUnsupportedCapability = errors.New("speech recognition not supported")

// ErrClosed is returned by StartCapture after Close.
var ErrClosed = errors.New("accumulator closed")

// Provider error codes.
const (
	CodeNoSpeech    = "no-speech"
	CodeNetwork     = "network"
	CodeNotAllowed  = "not-allowed"
	CodeStartFailed = "start-failed"
)

// Recognizer is a source of recognition results.
//
// Start opens one result stream. The returned channel is closed when the
// provider ends the stream. Stop ends the current stream early.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
}

// Result is one recognition hypothesis. Final results are settled and will
// not be revised by the provider.
type Result struct {
	Transcript string
	Final      bool
}

// Event carries either a batch of results or an error.
type Event struct {
	Results []Result
	Err     *CaptureError
}

type CaptureError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

func (e *CaptureError) Error() string {
	if e.Message == "" {
		return "capture: " + e.Code
	}
	return fmt.Sprintf("capture: %s: %s", e.Code, e.Message)
}

func (e *CaptureError) Unwrap() error { return e.Err }
