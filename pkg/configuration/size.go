package configuration

import (
	"github.com/dustin/go-humanize"
)

// ByteSize is a uint64 value that supports unmarshalling from both
// human-friendly string representations and numeric representations. It can be
// cast to a uint64 value, where it represents a byte count.
type ByteSize uint64

// UnmarshalText implements the text unmarshalling interface used when parsing
// command line flags.
func (s *ByteSize) UnmarshalText(textBytes []byte) error {
	// Parse and store the value.
	value, err := humanize.ParseBytes(string(textBytes))
	if err != nil {
		return err
	}
	*s = ByteSize(value)

	// Success.
	return nil
}

// UnmarshalYAML implements the YAML unmarshalling interface used when loading
// from YAML files. Numeric values are treated as byte counts.
func (s *ByteSize) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(text))
}

// String provides a human-friendly representation of the byte size.
func (s ByteSize) String() string {
	return humanize.IBytes(uint64(s))
}

// Set implements pflag.Value.Set.
func (s *ByteSize) Set(value string) error {
	return s.UnmarshalText([]byte(value))
}

// Type implements pflag.Value.Type.
func (s *ByteSize) Type() string {
	return "size"
}
