// Package testutil provides shared test doubles.
package testutil

import (
	"sync"

	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/logging"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// MockLogger records every log call for assertion.  Safe for concurrent
// use.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	with    []logging.Field
}

// NewMockLogger returns an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(append([]logging.Field{}, m.with...), fields...)
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.record("fatal", msg, fields) }
func (m *MockLogger) Sync() error                               { return nil }

// With returns a child logger sharing the same entry sink.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &childLogger{parent: m, with: append(append([]logging.Field{}, m.with...), fields...)}
}

// Entries returns a snapshot of recorded calls.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Messages returns the recorded messages in order.
func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Message
	}
	return out
}

type childLogger struct {
	parent *MockLogger
	with   []logging.Field
}

func (c *childLogger) record(level, msg string, fields []logging.Field) {
	c.parent.record(level, msg, append(append([]logging.Field{}, c.with...), fields...))
}

func (c *childLogger) Debug(msg string, fields ...logging.Field) { c.record("debug", msg, fields) }
func (c *childLogger) Info(msg string, fields ...logging.Field)  { c.record("info", msg, fields) }
func (c *childLogger) Warn(msg string, fields ...logging.Field)  { c.record("warn", msg, fields) }
func (c *childLogger) Error(msg string, fields ...logging.Field) { c.record("error", msg, fields) }
func (c *childLogger) Fatal(msg string, fields ...logging.Field) { c.record("fatal", msg, fields) }
func (c *childLogger) Sync() error                               { return nil }

func (c *childLogger) With(fields ...logging.Field) logging.Logger {
	return &childLogger{parent: c.parent, with: append(append([]logging.Field{}, c.with...), fields...)}
}
