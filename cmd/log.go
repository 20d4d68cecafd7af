package cmd

import (
	"log"

	"github.com/fatih/color"

	"github.com/mutagen-io/sharedfile/pkg/logging"
)

func init() {
	// Route the standard logger (which backs the logging package) to standard
	// error so that it doesn't interfere with file data on standard output.
	log.SetOutput(color.Error)
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

// NewLogger creates a root logger for the specified log level name.
func NewLogger(levelName string) (*logging.Logger, error) {
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(level), nil
}
