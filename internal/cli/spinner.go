package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinnerFrames cycle while a remote cache backend connects.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on out until it is stopped or the parent
// context ends. stop is idempotent and safe on a spinner that never started.
type spinner struct {
	out     io.Writer
	message string
	parent  context.Context

	mu       sync.Mutex
	started  bool
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newSpinner(ctx context.Context, out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		parent:  ctx,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.parent.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
			s.clearLine()
		}
	})
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// succeed stops the spinner and leaves a success line in its place.
func (s *spinner) succeed(msg string) {
	s.stop()
	fmt.Fprintln(s.out, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// fail stops the spinner and leaves an error line in its place.
func (s *spinner) fail(msg string) {
	s.stop()
	fmt.Fprintln(s.out, styleIconError.Render(iconError)+" "+msg)
}

// cancelled reports whether the parent context ended, for example on Ctrl-C
// while a redis or mongo backend was still connecting.
func (s *spinner) cancelled() bool {
	return s.parent.Err() != nil
}
