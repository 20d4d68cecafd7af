package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/mutagen-io/sharedfile/cmd"
	"github.com/mutagen-io/sharedfile/pkg/must"
)

// catMain is the entry point for the cat command.
func catMain(_ *cobra.Command, arguments []string) error {
	// Load configuration.
	config, logger, err := configure()
	if err != nil {
		return err
	}
	logger = logger.Sublogger("cat")

	// Open the file and defer its closure.
	cursor, err := openCursor(arguments[0], logger)
	if err != nil {
		return err
	}
	defer must.Close(cursor, logger)

	// Position the cursor.
	switch catConfiguration.whence {
	case "start":
		if catConfiguration.offset < 0 {
			return errors.New("offset must be non-negative when seeking from start")
		}
		cursor.SeekStart(uint64(catConfiguration.offset))
	case "current":
		_, err = cursor.SeekCurrent(catConfiguration.offset)
	case "end":
		_, err = cursor.SeekEnd(catConfiguration.offset)
	default:
		return errors.Errorf("invalid whence: %s", catConfiguration.whence)
	}
	if err != nil {
		return errors.Wrap(err, "unable to seek")
	}
	logger.Debugf("Reading from offset %d", cursor.Position())

	// Limit the read if requested.
	var source io.Reader = cursor
	if catConfiguration.length >= 0 {
		source = io.LimitReader(cursor, catConfiguration.length)
	}

	// Copy the data. We hide the destination's io.ReaderFrom implementation so
	// that reads are performed with the configured buffer size.
	buffer := make([]byte, bufferSize(config.BufferSize))
	copied, err := io.CopyBuffer(struct{ io.Writer }{os.Stdout}, source, buffer)
	if err != nil {
		return errors.Wrap(err, "unable to copy file contents")
	}
	logger.Debugf("Copied %d bytes", copied)

	// Success.
	return nil
}

// catCommand is the cat command.
var catCommand = &cobra.Command{
	Use:          "cat <path>",
	Short:        "Print file contents starting at a specified position",
	Args:         cobra.ExactArgs(1),
	Run:          cmd.Mainify(catMain),
	SilenceUsage: true,
}

// catConfiguration stores configuration for the cat command.
var catConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// offset is the seek offset.
	offset int64
	// whence is the seek origin.
	whence string
	// length is the maximum number of bytes to print, or -1 for no limit.
	length int64
}

func init() {
	// Grab a handle for the command line flags.
	flags := catCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&catConfiguration.help, "help", "h", false, "Show help information")

	// Wire up seek flags.
	flags.Int64VarP(&catConfiguration.offset, "offset", "o", 0, "Specify the seek offset")
	flags.StringVarP(&catConfiguration.whence, "whence", "w", "start", "Specify the seek origin (start|current|end)")
	flags.Int64VarP(&catConfiguration.length, "length", "n", -1, "Limit the number of bytes printed")
}
