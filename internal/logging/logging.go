// Package logging provides structured JSON logging for promptdeck
// components. Events go to stderr so they never mix with document output
// on stdout.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Event     string         `json:"event"`
	Source    string         `json:"source,omitempty"`
	Duration  int64          `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Logger emits structured events for one component.
type Logger struct {
	component string
	source    string
	out       io.Writer
}

// New creates a logger for a component.
func New(component string) *Logger {
	return &Logger{component: component, out: os.Stderr}
}

// WithSource attaches the active source path or endpoint to every event.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{component: l.component, source: source, out: l.out}
}

// WithOutput redirects events, mainly for tests.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{component: l.component, source: l.source, out: w}
}

func (l *Logger) log(level Level, event string, extra map[string]any, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Source:    l.source,
		Extra:     extra,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]any) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]any) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an info event with elapsed duration.
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]any) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		Source:    l.source,
		Duration:  time.Since(start).Milliseconds(),
		Extra:     extra,
	}
	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
