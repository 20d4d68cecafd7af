package configuration

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mutagen-io/sharedfile/pkg/encoding"
	"github.com/mutagen-io/sharedfile/pkg/logging"
)

const (
	// PathEnvironmentVariable is the environment variable that can be used to
	// specify a configuration file path.
	PathEnvironmentVariable = "SHAREDFILE_CONFIGURATION"
	// DefaultBufferSize is the default per-cursor read buffer size.
	DefaultBufferSize = 64 * 1024
	// MaximumBufferSize is the maximum allowed per-cursor read buffer size.
	MaximumBufferSize = 1024 * 1024 * 1024
	// MaximumWorkers is the maximum allowed number of concurrent cursors.
	MaximumWorkers = 1024
)

// Configuration is the configuration for the sharedfile tool.
type Configuration struct {
	// Workers is the number of concurrent cursors to use for verification. A
	// value of 0 indicates one per CPU.
	Workers int `yaml:"workers"`
	// BufferSize is the per-cursor read buffer size. A value of 0 indicates
	// the default size.
	BufferSize ByteSize `yaml:"bufferSize"`
	// LogLevel is the name of the log level.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the default configuration.
func Default() *Configuration {
	return &Configuration{
		BufferSize: DefaultBufferSize,
		LogLevel:   logging.LevelWarn.String(),
	}
}

// Load loads a configuration from the specified path, with any unspecified
// values set to their defaults. If the path is empty or doesn't exist, then the
// default configuration is returned. The result is validated. The returned
// structure is not re-used, so its members can be freely mutated.
func Load(path string) (*Configuration, error) {
	// Create a configuration that we can decode into. We set default values
	// here because nothing will be modified in this structure if the
	// configuration file doesn't exist.
	result := Default()

	// Attempt to load the configuration from disk.
	if path != "" {
		if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(err, "unable to load configuration")
			}
		}
	}

	// Validate the configuration.
	if err := result.EnsureValid(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	// Success.
	return result, nil
}

// EnsureValid ensures that the configuration is valid.
func (c *Configuration) EnsureValid() error {
	// A nil configuration is not valid.
	if c == nil {
		return errors.New("nil configuration")
	}

	// Verify the worker count.
	if c.Workers < 0 {
		return errors.New("negative worker count")
	} else if c.Workers > MaximumWorkers {
		return errors.Errorf("worker count exceeds maximum (%d)", MaximumWorkers)
	}

	// Verify the buffer size.
	if c.BufferSize > MaximumBufferSize {
		return errors.Errorf("buffer size exceeds maximum (%s)", ByteSize(MaximumBufferSize))
	}

	// Verify the log level.
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	// Success.
	return nil
}
