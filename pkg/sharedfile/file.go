package sharedfile

import (
	"bytes"
	"io"
	"io/fs"
)

// File is the capability that cursors require from an underlying file
// resource. Implementations must support concurrent invocation of both methods.
type File interface {
	// ReaderAt is the positional read primitive. It must not depend on or
	// modify any implicit file position.
	io.ReaderAt
	// Length returns the current length of the resource in bytes.
	Length() (uint64, error)
}

// OwnedFile is a File whose lifetime can be managed by a shared handle.
type OwnedFile interface {
	File
	io.Closer
}

// LockableFile is a file resource that lacks a positional read primitive and
// must instead be positioned before each read. *os.File satisfies this
// interface.
type LockableFile interface {
	io.ReadSeeker
	// Stat returns metadata for the file.
	Stat() (fs.FileInfo, error)
}

// memory is the in-memory File implementation underlying Bytes.
type memory struct {
	*bytes.Reader
}

// Bytes creates a File backed by a byte slice. The slice must not be modified
// while the file is in use.
func Bytes(data []byte) OwnedFile {
	return memory{bytes.NewReader(data)}
}

// Length implements File.Length.
func (m memory) Length() (uint64, error) {
	return uint64(m.Size()), nil
}

// Close implements io.Closer.Close.
func (m memory) Close() error {
	return nil
}
