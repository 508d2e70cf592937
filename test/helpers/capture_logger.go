package helpers

import (
	"strings"
	"sync"
)

// LogEntry is one line recorded by CaptureLogger
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// CaptureLogger records every log line for assertions
type CaptureLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (l *CaptureLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// Contains returns true if a line at level contains substr
func (l *CaptureLogger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Count returns the number of lines at level
func (l *CaptureLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
