package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
)

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logger.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end of
// a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	// Append the data to our internal buffer.
	w.buffer = append(w.buffer, buffer...)

	// Process all complete lines in the buffer.
	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	// Shift any leftover fragment to the front of the buffer.
	if processed > 0 {
		leftover := copy(w.buffer, w.buffer[processed:])
		w.buffer = w.buffer[:leftover]
	}

	// Done.
	return len(buffer), nil
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. Output is filtered by level
// and written to the standard logger provided by the log package, so it
// respects any output and flags set for that logger. It is safe for concurrent
// usage.
type Logger struct {
	// level is the maximum level at which the logger emits output.
	level Level
	// prefix is any prefix specified for the logger.
	prefix string
}

// NewLogger creates a new root logger that emits output at or below the
// specified level.
func NewLogger(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new sublogger with the specified name. It inherits the
// level of its parent.
func (l *Logger) Sublogger(name string) *Logger {
	// If the logger is nil, then the sublogger will be as well.
	if l == nil {
		return nil
	}

	// Compute the new prefix.
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	// Create the new logger.
	return &Logger{
		level:  l.level,
		prefix: prefix,
	}
}

// Level returns the logger's level. Nil loggers report LevelDisabled.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelDisabled
	}
	return l.level
}

// enabled returns whether or not output at the specified level is emitted.
func (l *Logger) enabled(level Level) bool {
	return l != nil && level <= l.level
}

// output is the internal logging method.
func (l *Logger) output(line string) {
	// Add a prefix if necessary.
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}

	// Log. The call depth accounts for output and the public logging method.
	log.Output(3, line)
}

// Error logs error information with an error prefix and red color.
func (l *Logger) Error(err error) {
	if l.enabled(LevelError) {
		l.output(color.RedString("Error: %v", err))
	}
}

// Warn logs error information with a warning prefix and yellow color.
func (l *Logger) Warn(err error) {
	if l.enabled(LevelWarn) {
		l.output(color.YellowString("Warning: %v", err))
	}
}

// Warnf logs a warning with semantics equivalent to fmt.Sprintf, using a
// warning prefix and yellow color.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.enabled(LevelWarn) {
		l.output(color.YellowString("Warning: "+format, v...))
	}
}

// Info logs information with semantics equivalent to fmt.Sprint.
func (l *Logger) Info(v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(fmt.Sprint(v...))
	}
}

// Infof logs information with semantics equivalent to fmt.Sprintf.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Debug logs information with semantics equivalent to fmt.Sprint, but only at
// the debug level or above.
func (l *Logger) Debug(v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(fmt.Sprint(v...))
	}
}

// Debugf logs information with semantics equivalent to fmt.Sprintf, but only
// at the debug level or above.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Tracef logs information with semantics equivalent to fmt.Sprintf, but only
// at the trace level.
func (l *Logger) Tracef(format string, v ...interface{}) {
	if l.enabled(LevelTrace) {
		l.output(fmt.Sprintf(format, v...))
	}
}

// Writer returns an io.Writer that logs lines at the specified level.
func (l *Logger) Writer(level Level) io.Writer {
	// If output at this level won't be logged anyway, then we can just discard
	// input. This saves us the overhead of scanning lines.
	if !l.enabled(level) {
		return io.Discard
	}

	// Create the writer.
	return &writer{
		callback: func(s string) {
			l.output(s)
		},
	}
}
