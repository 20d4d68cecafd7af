//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package sharedfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// preadRetryingOnEINTR is a wrapper around the pread system call that retries
// on EINTR errors and returns on the first successful call or non-EINTR error.
func preadRetryingOnEINTR(file int, buffer []byte, offset int64) (int, error) {
	for {
		result, err := unix.Pread(file, buffer, offset)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return result, err
	}
}

// fstatRetryingOnEINTR is a wrapper around the fstat system call that retries
// on EINTR errors and returns on the first successful call or non-EINTR error.
func fstatRetryingOnEINTR(file int, metadata *unix.Stat_t) error {
	for {
		err := unix.Fstat(file, metadata)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}
