// Package progress reports batch progress to the user and carries cancel
// requests back to the coordinator.
package progress

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
)

// Surface shows progress and delivers cancel requests.
type Surface interface {
	ReportProgress(label string, fraction float64)
	// OnCancelRequested returns a channel closed when the user asks to
	// stop the batch. A nil channel never fires.
	OnCancelRequested() <-chan struct{}
}

// Nop ignores progress and never requests cancellation.
type Nop struct{}

// ReportProgress implements Surface.
func (Nop) ReportProgress(string, float64) {}

// OnCancelRequested implements Surface.
func (Nop) OnCancelRequested() <-chan struct{} { return nil }

// halter is a close-once cancel channel shared by the surfaces below.
type halter struct {
	once sync.Once
	ch   chan struct{}
}

func newHalter() *halter {
	return &halter{ch: make(chan struct{})}
}

func (h *halter) halt() {
	h.once.Do(func() { close(h.ch) })
}

// Console prints progress lines and requests cancellation on Halt or on
// an interrupt signal while watched.
type Console struct {
	mu sync.Mutex
	w  io.Writer
	h  *halter
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, h: newHalter()}
}

// ReportProgress implements Surface.
func (c *Console) ReportProgress(label string, fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%3.0f%%] %s\n", clamp(fraction)*100, label)
}

// OnCancelRequested implements Surface.
func (c *Console) OnCancelRequested() <-chan struct{} { return c.h.ch }

// Halt requests cancellation. Only the first call has an effect.
func (c *Console) Halt() { c.h.halt() }

// WatchInterrupt turns the first interrupt signal into a Halt until the
// returned stop function is called.
func (c *Console) WatchInterrupt() (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			c.Halt()
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}

// Multi fans progress out to several surfaces and fires when any of them
// requests cancellation.
type Multi struct {
	surfaces []Surface
	h        *halter
	done     chan struct{}
	stop     sync.Once
}

// NewMulti combines surfaces. Close releases the goroutines watching them.
func NewMulti(surfaces ...Surface) *Multi {
	m := &Multi{surfaces: surfaces, h: newHalter(), done: make(chan struct{})}
	for _, s := range surfaces {
		ch := s.OnCancelRequested()
		if ch == nil {
			continue
		}
		go func() {
			select {
			case <-ch:
				m.h.halt()
			case <-m.done:
			}
		}()
	}
	return m
}

// ReportProgress implements Surface.
func (m *Multi) ReportProgress(label string, fraction float64) {
	for _, s := range m.surfaces {
		s.ReportProgress(label, fraction)
	}
}

// OnCancelRequested implements Surface.
func (m *Multi) OnCancelRequested() <-chan struct{} { return m.h.ch }

// Close stops watching the combined surfaces.
func (m *Multi) Close() {
	m.stop.Do(func() { close(m.done) })
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
