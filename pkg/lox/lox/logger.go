package lox

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Logger receives progress output such as stage timings. It is never used
// for diagnostics; those go to an errors.Reporter.
//
// Log appends to the current line; LogLine appends and ends it.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// writerLogger writes to an io.Writer. The watcher logs from timer
// goroutines, so writes are serialised.
type writerLogger struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	midway bool // a Log call left the line open
}

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// PrefixLogger returns a logger that writes to w and starts every line
// with prefix.
func PrefixLogger(w io.Writer, prefix string) Logger {
	return &writerLogger{w: w, prefix: prefix}
}

func (l *writerLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(values, false)
}

func (l *writerLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(values, true)
}

func (l *writerLogger) write(values []any, end bool) {
	var sb strings.Builder
	if !l.midway {
		sb.WriteString(l.prefix)
	}
	sb.WriteString(formatLogValues(values...))
	if end {
		sb.WriteByte('\n')
	}
	l.midway = !end
	io.WriteString(l.w, sb.String())
}

// BufferedLogger captures log output in memory, one entry per line.
type BufferedLogger struct {
	mu      sync.Mutex
	lines   []string
	partial strings.Builder
}

// NewBufferedLogger creates an empty buffered logger
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partial.WriteString(formatLogValues(values...))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partial.WriteString(formatLogValues(values...))
	l.lines = append(l.lines, l.partial.String())
	l.partial.Reset()
}

// String returns completed lines, each ending in a newline, followed by
// any unfinished line.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sb strings.Builder
	for _, line := range l.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(l.partial.String())
	return sb.String()
}

// Lines returns a copy of the completed lines.
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Reset discards everything captured so far.
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.partial.Reset()
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return nullLogger{}
}

// formatLogValues joins values with spaces. Durations are rounded to the
// microsecond and numbers print in their shortest form.
func formatLogValues(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case time.Duration:
			parts[i] = v.Round(time.Microsecond).String()
		case float64:
			parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " ")
}
