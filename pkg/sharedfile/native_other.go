//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package sharedfile

import (
	"os"
)

// Native adapts an open file to the File interface. On this platform there's
// no supported positional read primitive, so reads are serialized through
// Locked.
func Native(file *os.File) OwnedFile {
	return Locked(file)
}
