package main

import (
	"encoding/hex"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/mutagen-io/sharedfile/cmd"
	"github.com/mutagen-io/sharedfile/pkg/configuration"
	"github.com/mutagen-io/sharedfile/pkg/must"
	"github.com/mutagen-io/sharedfile/pkg/verification"
)

// applyWorkerFlags overrides configuration values with any worker-related flags
// explicitly set on the specified command.
func applyWorkerFlags(command *cobra.Command, config *configuration.Configuration, workers int, size configuration.ByteSize) error {
	flags := command.Flags()
	if flags.Changed("workers") {
		config.Workers = workers
	}
	if flags.Changed("buffer-size") {
		config.BufferSize = size
	}
	return config.EnsureValid()
}

// rate computes a human-friendly transfer rate.
func rate(size uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(float64(size)/elapsed.Seconds())) + "/s"
}

// verifyMain is the entry point for the verify command.
func verifyMain(command *cobra.Command, arguments []string) error {
	// Load configuration and apply flags.
	config, logger, err := configure()
	if err != nil {
		return err
	}
	logger = logger.Sublogger("verify")
	if err := applyWorkerFlags(command, config, verifyConfiguration.workers, verifyConfiguration.bufferSize); err != nil {
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
	logger.Infof("Verifying with %d cursors", verifier.Workers())

	// Compute digests.
	start := time.Now()
	results, err := verifier.Digest()
	if err != nil {
		return errors.Wrap(err, "unable to compute digests")
	}
	elapsed := time.Since(start)
	for _, result := range results {
		logger.Info(result)
	}

	// Ensure that all cursors observed the same contents.
	if !verification.Consistent(results) {
		return errors.New("cursors observed inconsistent file contents")
	}

	// Report results.
	total := results[0].Size * uint64(len(results))
	cmd.Success("Verified %s with %d cursors", humanize.IBytes(results[0].Size), len(results))
	cmd.Success("SHA-256: %s", hex.EncodeToString(results[0].Digest))
	cmd.Success("Aggregate throughput: %s", rate(total, elapsed))

	// Success.
	return nil
}

// verifyCommand is the verify command.
var verifyCommand = &cobra.Command{
	Use:          "verify <path>",
	Short:        "Read a file concurrently through many cursors and compare digests",
	Args:         cobra.ExactArgs(1),
	Run:          cmd.Mainify(verifyMain),
	SilenceUsage: true,
}

// verifyConfiguration stores configuration for the verify command.
var verifyConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// workers is the number of concurrent cursors.
	workers int
	// bufferSize is the per-cursor read buffer size.
	bufferSize configuration.ByteSize
}

func init() {
	// Grab a handle for the command line flags.
	flags := verifyCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&verifyConfiguration.help, "help", "h", false, "Show help information")

	// Wire up verification flags.
	flags.IntVarP(&verifyConfiguration.workers, "workers", "j", 0, "Specify the number of concurrent cursors (0 for one per CPU)")
	flags.VarP(&verifyConfiguration.bufferSize, "buffer-size", "b", "Specify the per-cursor read buffer size")
}
