package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated status line for a long-running operation.
// It uses \r to overwrite the current line, so it should own the terminal
// line until one of the Stop methods is called.
type Spinner struct {
	message   string
	out       io.Writer
	interval  time.Duration
	startTime time.Time

	mu     sync.Mutex
	active bool
	done   chan struct{}
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		out:      os.Stdout,
		interval: 100 * time.Millisecond,
	}
}

// Start begins the spinner animation in a background goroutine.
// Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return
	}
	s.active = true
	s.startTime = time.Now()
	s.done = make(chan struct{})

	go s.spin(s.done)
}

func (s *Spinner) spin(done chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s\x1b[K", Info(spinnerFrames[frame]), s.message)
			s.mu.Unlock()
			frame = (frame + 1) % len(spinnerFrames)
		}
	}
}

// UpdateMessage changes the message shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.stop("")
}

// StopWithSuccess halts the animation and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.mu.Lock()
	elapsed := time.Since(s.startTime)
	s.mu.Unlock()
	s.stop(SuccessMsg("%s %s", message, Muted("("+formatDuration(elapsed)+")")))
}

// StopWithError halts the animation and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.stop(ErrorMsg("%s", message))
}

func (s *Spinner) stop(finalLine string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	s.active = false
	close(s.done)

	if finalLine != "" {
		fmt.Fprintf(s.out, "\r%s\x1b[K\n", finalLine)
	} else {
		fmt.Fprintf(s.out, "\r\x1b[K")
	}
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
