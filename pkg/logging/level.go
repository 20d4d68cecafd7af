package logging

import (
	"github.com/pkg/errors"
)

// Level represents a log level. Its value hierarchy is designed to be ordered
// and comparable by value.
type Level uint

const (
	// LevelDisabled indicates that logging is completely disabled.
	LevelDisabled Level = iota
	// LevelError indicates that only fatal errors are logged.
	LevelError
	// LevelWarn indicates that both fatal and non-fatal errors are logged.
	LevelWarn
	// LevelInfo indicates that basic execution information is logged (in
	// addition to all errors).
	LevelInfo
	// LevelDebug indicates that per-cursor execution information is logged (in
	// addition to basic information and all errors).
	LevelDebug
	// LevelTrace indicates that per-read execution information is logged (in
	// addition to all other execution information and all errors).
	LevelTrace
)

// levelNames maps level names to levels.
var levelNames = map[string]Level{
	"disabled": LevelDisabled,
	"error":    LevelError,
	"warn":     LevelWarn,
	"info":     LevelInfo,
	"debug":    LevelDebug,
	"trace":    LevelTrace,
}

// NameToLevel converts a string-based representation of a log level to the
// appropriate Level value. It returns a boolean indicating whether or not the
// conversion was valid. If the name is invalid, LevelDisabled is returned.
func NameToLevel(name string) (Level, bool) {
	level, ok := levelNames[name]
	return level, ok
}

// ParseLevel is a variant of NameToLevel that returns a descriptive error for
// invalid names.
func ParseLevel(name string) (Level, error) {
	if level, ok := NameToLevel(name); ok {
		return level, nil
	}
	return LevelDisabled, errors.Errorf("invalid log level: %s", name)
}

// String provides a human-readable representation of a log level.
func (l Level) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return "unknown"
}
