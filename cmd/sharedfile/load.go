package main

import (
	"crypto/sha256"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/mutagen-io/sharedfile/cmd"
	"github.com/mutagen-io/sharedfile/pkg/must"
	"github.com/mutagen-io/sharedfile/pkg/verification"
)

// loadMain is the entry point for the load command.
func loadMain(command *cobra.Command, arguments []string) error {
	// Load configuration and apply flags.
	config, logger, err := configure()
	if err != nil {
		return err
	}
	logger = logger.Sublogger("load")
	if err := applyWorkerFlags(command, config, loadConfiguration.workers, 0); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	// Open the file and defer its closure.
	cursor, err := openCursor(arguments[0], logger)
	if err != nil {
		return err
	}
	defer must.Close(cursor, logger)

	// Create a verifier and defer its shutdown.
	verifier := verification.NewVerifier(logger, cursor, config.Workers, bufferSize(config.BufferSize))
	defer func() {
		must.Succeed(verifier.Shutdown(), "verifier shutdown", logger)
	}()
	logger.Infof("Loading with %d cursors", verifier.Workers())

	// Load the file.
	start := time.Now()
	contents, err := verifier.Load()
	if err != nil {
		return errors.Wrap(err, "unable to load file")
	}
	elapsed := time.Since(start)

	// Report results.
	cmd.Success("Loaded %s with %d cursors", humanize.IBytes(uint64(len(contents))), verifier.Workers())
	cmd.Success("SHA-256: %x", sha256.Sum256(contents))
	cmd.Success("Throughput: %s", rate(uint64(len(contents)), elapsed))

	// Success.
	return nil
}

// loadCommand is the load command.
var loadCommand = &cobra.Command{
	Use:          "load <path>",
	Short:        "Load a file into memory using concurrently read stripes",
	Args:         cobra.ExactArgs(1),
	Run:          cmd.Mainify(loadMain),
	SilenceUsage: true,
}

// loadConfiguration stores configuration for the load command.
var loadConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// workers is the number of concurrent cursors.
	workers int
}

func init() {
	// Grab a handle for the command line flags.
	flags := loadCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&loadConfiguration.help, "help", "h", false, "Show help information")

	// Wire up load flags.
	flags.IntVarP(&loadConfiguration.workers, "workers", "j", 0, "Specify the number of concurrent cursors (0 for one per CPU)")
}
