// Package eventlog carries status and failure messages from a run to the
// places that display them.
package eventlog

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Sink receives user-facing run messages.
type Sink interface {
	LogStatus(message string)
	LogFailure(title, message string)
}

// SlogSink forwards messages to a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

// LogStatus logs message at info level.
func (s *SlogSink) LogStatus(message string) {
	s.logger().Info(message)
}

// LogFailure logs message at error level with title as the message key.
func (s *SlogSink) LogFailure(title, message string) {
	s.logger().Error(title+".", "detail", message)
}

func (s *SlogSink) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// WriterSink prints messages one per line.
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

// LogStatus implements Sink.
func (s *WriterSink) LogStatus(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.W, message)
}

// LogFailure implements Sink.
func (s *WriterSink) LogFailure(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.W, "%s: %s\n", title, message)
}

// Multi fans messages out to several sinks.
type Multi []Sink

// LogStatus implements Sink.
func (m Multi) LogStatus(message string) {
	for _, s := range m {
		s.LogStatus(message)
	}
}

// LogFailure implements Sink.
func (m Multi) LogFailure(title, message string) {
	for _, s := range m {
		s.LogFailure(title, message)
	}
}
