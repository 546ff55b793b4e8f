// Package logging provides the small stderr logger used across
// secretsql, with redaction support so secret material never reaches
// log output.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes leveled messages to stderr. Debug messages are dropped
// unless debug mode is enabled.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a logger.
func New(debug, noColor bool) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: os.Stderr}
}

// NewWithWriter creates a logger writing to out, for tests.
func NewWithWriter(out io.Writer, debug, noColor bool) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: out}
}

func (l *Logger) write(color, marker, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(l.out, "%s %s\n", marker, msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, marker, msg)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write("\033[32m", "✓", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("\033[33m", "⚠", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("\033[31m", "✗", format, args...)
}

// Debug logs a debug message when debug mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.write("\033[36m", "[DEBUG]", format, args...)
}

// Secret is a string value that renders as [REDACTED] under every
// formatting verb. Wrap credential material in it before logging.
type Secret string

func (s Secret) String() string { return "[REDACTED]" }

// GoString keeps %#v output redacted as well.
func (s Secret) GoString() string { return "[REDACTED]" }

// Redact replaces occurrences of the given secret values in s with
// [REDACTED]. Values of three characters or fewer are skipped to avoid
// shredding unrelated text.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if len(secret) > 3 {
			s = strings.ReplaceAll(s, secret, "[REDACTED]")
		}
	}
	return s
}
