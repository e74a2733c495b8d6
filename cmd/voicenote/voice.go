package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"voice-notes/internal/form"
	"voice-notes/internal/speech"
)

// dictate feeds every non-blank line of r to a capture session bound to f
// and returns once f holds the resulting transcript.
func dictate[T any](ctx context.Context, r io.Reader, f *form.Form[T]) error {
	feed := speech.NewFeed()
	acc := speech.New(feed, speech.WithLogger(slog.Default()))
	defer acc.Close()

	f.Bind(acc)
	defer f.Unbind()

	updates, unsubscribe := acc.Subscribe()
	defer unsubscribe()

	if err := acc.StartCapture(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	phrases := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !feed.Final(line) {
			return fmt.Errorf("capture stopped: %w", captureErr(acc.Snapshot()))
		}
		phrases++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read dictation: %w", err)
	}

	for done := false; !done; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-updates:
			switch {
			case snap.State == speech.StateErrored:
				return captureErr(snap)
			case snap.Finals >= phrases:
				done = true
			}
		}
	}
	acc.StopCapture()
	return nil
}

func captureErr(snap speech.Snapshot) error {
	if snap.LastError != nil {
		return snap.LastError
	}
	return fmt.Errorf("capture ended in state %s", snap.State)
}
