package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mutagen-io/sharedfile/cmd"
	"github.com/mutagen-io/sharedfile/pkg/configuration"
	"github.com/mutagen-io/sharedfile/pkg/logging"
	"github.com/mutagen-io/sharedfile/pkg/must"
	"github.com/mutagen-io/sharedfile/pkg/sharedfile"
	"github.com/mutagen-io/sharedfile/pkg/version"
)

// configure loads the tool configuration, applying any global command
// line overrides, and creates a root logger for it.
func configure() (*configuration.Configuration, *logging.Logger, error) {
	// Determine the configuration path.
	path := rootConfiguration.configuration
	if path == "" {
		path = os.Getenv(configuration.PathEnvironmentVariable)
	}

	// Load the configuration.
	config, err := configuration.Load(path)
	if err != nil {
		return nil, nil, err
	}

	// Apply overrides. An explicit log level takes precedence over the
	// debugging environment variable.
	if rootConfiguration.logLevel != "" {
		config.LogLevel = rootConfiguration.logLevel
	} else if version.DebugEnabled {
		config.LogLevel = logging.LevelDebug.String()
	}

	// Create the logger.
	logger, err := cmd.NewLogger(config.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("Loaded configuration from %q", path)

	// Success.
	return config, logger, nil
}

// openCursor opens the file at the specified path and returns a cursor that
// owns it. The file is closed once the cursor and all of its clones are closed.
func openCursor(path string, logger *logging.Logger) (*sharedfile.Cursor, error) {
	// Open the file.
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open file")
	}

	// Ensure that it's a regular file.
	metadata, err := file.Stat()
	if err != nil {
		must.Close(file, logger)
		return nil, errors.Wrap(err, "unable to query file metadata")
	} else if !metadata.Mode().IsRegular() {
		must.Close(file, logger)
		return nil, errors.Errorf("%s is not a regular file", path)
	}

	// Wrap the file.
	return sharedfile.NewOwned(sharedfile.Native(file)), nil
}

// bufferSize converts a configured buffer size to a concrete buffer length.
func bufferSize(size configuration.ByteSize) int {
	if size == 0 {
		return configuration.DefaultBufferSize
	}
	return int(size)
}
