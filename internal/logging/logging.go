// Package logging prints the colored, level-prefixed diagnostic lines used
// across phishguard. Output goes to stderr by default so rendered verdicts on
// stdout stay machine readable.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Field is a key/value pair appended to a log line.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

var (
	debugPrefix   = color.New(color.FgYellow).SprintFunc()
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
)

// Logger writes level-prefixed lines. Debug needs verbose; Info, Warn and
// Success are silenced by quiet; Error is always written.
type Logger struct {
	mu      *sync.Mutex
	out     io.Writer
	verbose bool
	quiet   bool
	fields  []Field
}

// New creates a Logger writing to out. A nil out means stderr.
func New(out io.Writer, verbose, quiet bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{mu: &sync.Mutex{}, out: out, verbose: verbose, quiet: quiet}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false, true)
}

// With returns a child logger that appends fields to every line.
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	child.fields = append(append([]Field{}, l.fields...), fields...)
	return &child
}

func (l *Logger) Debug(msg string, fields ...Field) {
	if !l.verbose || l.quiet {
		return
	}
	l.write(debugPrefix("DEBUG:"), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l.quiet {
		return
	}
	l.write(infoPrefix("INFO:"), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	if l.quiet {
		return
	}
	l.write(warnPrefix("WARNING:"), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.write(errorPrefix("ERROR:"), msg, fields)
}

func (l *Logger) Success(msg string, fields ...Field) {
	if l.quiet {
		return
	}
	l.write(successPrefix("SUCCESS:"), msg, fields)
}

func (l *Logger) write(prefix, msg string, fields []Field) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range append(append([]Field{}, l.fields...), fields...) {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}
