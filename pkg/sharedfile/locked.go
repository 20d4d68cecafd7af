package sharedfile

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// lockedFile is the File implementation underlying Locked.
type lockedFile struct {
	// lock serializes positioning and reading of file.
	lock sync.Mutex
	// file is the underlying file.
	file LockableFile
}

// Locked adapts a file lacking a positional read primitive to the File
// interface by serializing a seek and read under a lock for each positional
// read. Cursors over the result behave identically to those over a native
// file, though concurrent reads are serialized. Closing the result closes the
// underlying file if it implements io.Closer. The underlying file's own
// position must not be relied upon by other code while the result is in use.
func Locked(file LockableFile) OwnedFile {
	return &lockedFile{file: file}
}

// ReadAt implements io.ReaderAt.ReadAt.
func (f *lockedFile) ReadAt(buffer []byte, offset int64) (int, error) {
	// Validate the offset.
	if offset < 0 {
		return 0, errors.New("negative offset")
	}

	// Lock the file and defer its release.
	f.lock.Lock()
	defer f.lock.Unlock()

	// Offsets at or beyond the end of the file read as end-of-file. Seeking
	// there could fail on filesystems that bound the maximum file size.
	length, err := f.Length()
	if err != nil {
		return 0, err
	} else if uint64(offset) >= length {
		if len(buffer) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	// Position the file.
	if _, err := f.file.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}

	// Read until the buffer is full. io.ReadFull reports a short read as
	// io.ErrUnexpectedEOF, but io.ReaderAt expects io.EOF.
	n, err := io.ReadFull(f.file, buffer)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// Length implements File.Length.
func (f *lockedFile) Length() (uint64, error) {
	metadata, err := f.file.Stat()
	if err != nil {
		return 0, err
	}
	size := metadata.Size()
	if size < 0 {
		return 0, errors.New("negative file size")
	}
	return uint64(size), nil
}

// Close implements io.Closer.Close.
func (f *lockedFile) Close() error {
	if closer, ok := f.file.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
