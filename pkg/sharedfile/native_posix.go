//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package sharedfile

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"golang.org/x/sys/unix"

	"github.com/mutagen-io/sharedfile/pkg/numeric"
)

// nativeFile is the File implementation used on POSIX systems. It issues pread
// and fstat system calls directly against the file's descriptor, so it never
// touches the descriptor's implicit file offset.
type nativeFile struct {
	// file is the underlying file.
	file *os.File
}

// Native adapts an open file to the File interface using the platform's
// positional read primitive. Closing the result closes the file.
func Native(file *os.File) OwnedFile {
	return &nativeFile{file}
}

// ReadAt implements io.ReaderAt.ReadAt.
func (f *nativeFile) ReadAt(buffer []byte, offset int64) (int, error) {
	// Validate the offset.
	if offset < 0 {
		return 0, errors.New("negative offset")
	}

	// pread rejects reads whose end would overflow the offset type, so clamp
	// the request. Nothing can be stored at the maximum offset itself.
	if limit := numeric.MaxInt64 - offset; limit == 0 {
		if len(buffer) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	} else if int64(len(buffer)) > limit {
		buffer = buffer[:limit]
	}

	// Grab raw access to the descriptor.
	raw, err := f.file.SyscallConn()
	if err != nil {
		return 0, err
	}

	// Read until the buffer is full, an error occurs, or we reach the end of
	// the file. A single pread may legitimately return fewer bytes than
	// requested, but io.ReaderAt requires an error in that case.
	var n int
	var readErr error
	if err := raw.Control(func(descriptor uintptr) {
		for len(buffer) > 0 {
			var m int
			m, readErr = preadRetryingOnEINTR(int(descriptor), buffer, offset)
			if readErr != nil {
				return
			} else if m == 0 {
				readErr = io.EOF
				return
			}
			n += m
			buffer = buffer[m:]
			offset += int64(m)
		}
	}); err != nil {
		return 0, err
	}
	return n, readErr
}

// Length implements File.Length.
func (f *nativeFile) Length() (uint64, error) {
	// Grab raw access to the descriptor.
	raw, err := f.file.SyscallConn()
	if err != nil {
		return 0, err
	}

	// Query metadata.
	var metadata unix.Stat_t
	var statErr error
	if err := raw.Control(func(descriptor uintptr) {
		statErr = fstatRetryingOnEINTR(int(descriptor), &metadata)
	}); err != nil {
		return 0, err
	} else if statErr != nil {
		return 0, statErr
	}

	// Validate and convert the size.
	if metadata.Size < 0 {
		return 0, errors.New("negative file size")
	}
	return uint64(metadata.Size), nil
}

// Close implements io.Closer.Close.
func (f *nativeFile) Close() error {
	return f.file.Close()
}
