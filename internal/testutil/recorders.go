package testutil

import (
	"sync"
)

// ProgressUpdate is one ReportProgress call.
type ProgressUpdate struct {
	Label    string
	Fraction float64
}

// RecordingSurface records progress and fires its cancel channel on Halt
// or, when HaltAfter is set, after that many progress updates.
type RecordingSurface struct {
	// HaltAfter requests cancellation once this many updates arrived.
	HaltAfter int

	mu      sync.Mutex
	updates []ProgressUpdate
	once    sync.Once
	halt    chan struct{}
}

// NewRecordingSurface creates a RecordingSurface.
func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{halt: make(chan struct{})}
}

// ReportProgress implements progress.Surface.
func (s *RecordingSurface) ReportProgress(label string, fraction float64) {
	s.mu.Lock()
	s.updates = append(s.updates, ProgressUpdate{Label: label, Fraction: fraction})
	n := len(s.updates)
	s.mu.Unlock()
	if s.HaltAfter > 0 && n >= s.HaltAfter {
		s.Halt()
	}
}

// OnCancelRequested implements progress.Surface.
func (s *RecordingSurface) OnCancelRequested() <-chan struct{} { return s.halt }

// Halt fires the cancel channel.
func (s *RecordingSurface) Halt() {
	s.once.Do(func() { close(s.halt) })
}

// Updates returns the recorded updates.
func (s *RecordingSurface) Updates() []ProgressUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ProgressUpdate(nil), s.updates...)
}

// SinkEntry is one message received by a RecordingSink. Title is empty
// for status messages.
type SinkEntry struct {
	Title   string
	Message string
}

// RecordingSink records every message.
type RecordingSink struct {
	mu      sync.Mutex
	entries []SinkEntry
}

// LogStatus implements eventlog.Sink.
func (s *RecordingSink) LogStatus(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SinkEntry{Message: message})
}

// LogFailure implements eventlog.Sink.
func (s *RecordingSink) LogFailure(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SinkEntry{Title: title, Message: message})
}

// Entries returns the recorded messages.
func (s *RecordingSink) Entries() []SinkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SinkEntry(nil), s.entries...)
}

// Failures returns the messages of recorded failures with the given title.
func (s *RecordingSink) Failures(title string) []string {
	var out []string
	for _, e := range s.Entries() {
		if e.Title == title {
			out = append(out, e.Message)
		}
	}
	return out
}
