// Package configuration provides loading and validation facilities for the
// sharedfile tool's YAML configuration files.
package configuration
