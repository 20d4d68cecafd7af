package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/spf13/cobra"
)

// Warning prints a warning message to standard error.
func Warning(message string) {
	color.New(color.FgYellow).Fprintln(color.Error, "Warning:", message)
}

// Error prints an error message to standard error.
func Error(err error) {
	color.New(color.FgRed).Fprintln(color.Error, "Error:", err)
}

// Fatal prints an error message to standard error and then terminates the
// process with an error exit code.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}

// Success prints a success message to standard output.
func Success(format string, a ...interface{}) {
	fmt.Fprintln(color.Output, color.GreenString(format, a...))
}

// Mainify converts an error-returning command entry point into the form cobra
// expects. A failure is reported through Fatal only once the entry point has
// returned, so that its deferred cursor and file closures have already run.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		err := entry(command, arguments)
		if err == nil {
			return
		}
		Fatal(err)
	}
}
