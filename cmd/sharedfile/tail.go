package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/mutagen-io/sharedfile/cmd"
	"github.com/mutagen-io/sharedfile/pkg/must"
	"github.com/mutagen-io/sharedfile/pkg/sharedfile"
)

// tailMain is the entry point for the tail command.
func tailMain(_ *cobra.Command, arguments []string) error {
	// Validate flags.
	if tailConfiguration.bytes < 0 {
		return errors.New("byte count must be non-negative")
	}

	// Load configuration.
	config, logger, err := configure()
	if err != nil {
		return err
	}
	logger = logger.Sublogger("tail")

	// Open the file and defer its closure.
	cursor, err := openCursor(arguments[0], logger)
	if err != nil {
		return err
	}
	defer must.Close(cursor, logger)

	// Seek relative to the end of the file. If the file is shorter than the
	// requested byte count, then print the whole file.
	if _, err := cursor.SeekEnd(-tailConfiguration.bytes); errors.Is(err, sharedfile.ErrInvalidOffset) {
		logger.Debug("File shorter than requested byte count")
		cursor.SeekStart(0)
	} else if err != nil {
		return errors.Wrap(err, "unable to seek")
	}
	logger.Debugf("Reading from offset %d", cursor.Position())

	// Copy the data.
	buffer := make([]byte, bufferSize(config.BufferSize))
	if _, err := io.CopyBuffer(struct{ io.Writer }{os.Stdout}, cursor, buffer); err != nil {
		return errors.Wrap(err, "unable to copy file contents")
	}

	// Success.
	return nil
}

// tailCommand is the tail command.
var tailCommand = &cobra.Command{
	Use:          "tail <path>",
	Short:        "Print the last bytes of a file",
	Args:         cobra.ExactArgs(1),
	Run:          cmd.Mainify(tailMain),
	SilenceUsage: true,
}

// tailConfiguration stores configuration for the tail command.
var tailConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// bytes is the number of trailing bytes to print.
	bytes int64
}

func init() {
	// Grab a handle for the command line flags.
	flags := tailCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&tailConfiguration.help, "help", "h", false, "Show help information")

	// Wire up tail flags.
	flags.Int64VarP(&tailConfiguration.bytes, "bytes", "n", 1024, "Specify the number of trailing bytes to print")
}
