// Package must provides helpers for cleanup operations whose failure can't be
// meaningfully handled by the caller, logging failures instead of returning
// them.
package must

import (
	"io"

	"github.com/mutagen-io/sharedfile/pkg/logging"
)

// Close closes the specified closer, logging any failure as a warning.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("Unable to close: %s", err.Error())
	}
}

// Succeed logs a warning if the specified error is non-nil.
func Succeed(err error, task string, logger *logging.Logger) {
	if err != nil {
		logger.Warnf("Unable to succeed at %s; %s", task, err.Error())
	}
}
