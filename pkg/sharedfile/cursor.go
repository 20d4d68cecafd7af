package sharedfile

import (
	"io"
	"io/fs"

	"github.com/pkg/errors"

	"github.com/mutagen-io/sharedfile/pkg/numeric"
)

// Cursor is an independent reader over a (potentially shared) file resource.
// Each cursor maintains its own position and reads using offset-addressed
// reads, so any number of cursors over the same file can be used concurrently
// from different Goroutines. A single cursor is not safe for concurrent usage;
// Goroutines should instead each use their own cursor obtained via Clone.
type Cursor struct {
	// handle is the cursor's reference to the underlying file.
	handle Handle
	// file is the underlying file, cached from handle.
	file File
	// position is the offset at which the next read will occur.
	position uint64
	// closed indicates whether or not the cursor has released its handle.
	closed bool
}

// New creates a new cursor that takes ownership of the specified handle
// reference. The cursor starts at position 0.
func New(handle Handle) *Cursor {
	return &Cursor{
		handle: handle,
		file:   handle.File(),
	}
}

// NewBorrowed creates a new cursor over a file whose lifetime is managed by the
// caller. Closing the cursor (or any of its clones) won't close the file.
func NewBorrowed(file File) *Cursor {
	return New(Borrow(file))
}

// NewOwned creates a new cursor that takes ownership of the specified file. The
// file is closed once the cursor and all of its clones have been closed.
func NewOwned(file OwnedFile) *Cursor {
	return New(Share(file))
}

// Clone creates a new cursor over the same underlying file. The new cursor
// starts at position 0, regardless of the position of the receiver. Cloning a
// closed cursor panics.
func (c *Cursor) Clone() *Cursor {
	if c.closed {
		panic("clone of closed cursor")
	}
	return New(c.handle.Duplicate())
}

// Position returns the current position of the cursor.
func (c *Cursor) Position() uint64 {
	return c.position
}

// Length returns the current length of the underlying file.
func (c *Cursor) Length() (uint64, error) {
	if c.closed {
		return 0, fs.ErrClosed
	}
	return c.file.Length()
}

// Read implements io.Reader.Read. It reads from the underlying file at the
// cursor's position and advances the position by the number of bytes read. If
// the position is at or beyond the end of the file, it returns io.EOF. Errors
// from the underlying file are returned unmodified and leave the position
// unchanged.
func (c *Cursor) Read(buffer []byte) (int, error) {
	// Handle closure and empty reads.
	if c.closed {
		return 0, fs.ErrClosed
	} else if len(buffer) == 0 {
		return 0, nil
	}

	// Positions that can't be expressed as a file offset lie beyond the end of
	// any file.
	if c.position > numeric.MaxInt64 {
		return 0, io.EOF
	}

	// Perform the read. If any data was read, then we report it without error
	// and let any persistent error resurface on the next read.
	n, err := c.file.ReadAt(buffer, int64(c.position))
	if n > 0 {
		c.position += uint64(n)
		return n, nil
	} else if err == nil {
		return 0, io.ErrNoProgress
	}
	return 0, err
}

// ReadAt implements io.ReaderAt.ReadAt. It reads directly from the underlying
// file and neither uses nor modifies the cursor's position.
func (c *Cursor) ReadAt(buffer []byte, offset int64) (int, error) {
	if c.closed {
		return 0, fs.ErrClosed
	}
	return c.file.ReadAt(buffer, offset)
}

// SeekStart sets the cursor's position to the specified absolute offset. The
// offset may lie beyond the end of the file, in which case subsequent reads
// will return io.EOF.
func (c *Cursor) SeekStart(offset uint64) uint64 {
	c.position = offset
	return offset
}

// SeekEnd sets the cursor's position relative to the current length of the
// underlying file. It returns an error wrapping ErrInvalidOffset if the
// resulting position would be negative or overflow, in which case the position
// is left unchanged.
func (c *Cursor) SeekEnd(delta int64) (uint64, error) {
	if c.closed {
		return 0, fs.ErrClosed
	}
	length, err := c.file.Length()
	if err != nil {
		return 0, err
	}
	position, err := applyDelta(length, delta, "end")
	if err != nil {
		return 0, err
	}
	c.position = position
	return position, nil
}

// SeekCurrent sets the cursor's position relative to its current position. It
// returns an error wrapping ErrInvalidOffset if the resulting position would
// be negative or overflow, in which case the position is left unchanged.
func (c *Cursor) SeekCurrent(delta int64) (uint64, error) {
	position, err := applyDelta(c.position, delta, "current")
	if err != nil {
		return 0, err
	}
	c.position = position
	return position, nil
}

// Seek implements io.Seeker.Seek in terms of SeekStart, SeekEnd, and
// SeekCurrent. Negative absolute offsets and unknown whence values are
// rejected with an error wrapping ErrInvalidOffset.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var position uint64
	var err error
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, errors.Wrapf(ErrInvalidOffset, "negative absolute offset %d", offset)
		}
		position = c.SeekStart(uint64(offset))
	case io.SeekCurrent:
		position, err = c.SeekCurrent(offset)
	case io.SeekEnd:
		position, err = c.SeekEnd(offset)
	default:
		return 0, errors.Wrapf(ErrInvalidOffset, "unknown whence value %d", whence)
	}
	if err != nil {
		return 0, err
	}

	// Relative seeks are computed in signed arithmetic, so the position is
	// always representable here.
	return int64(position), nil
}

// Close releases the cursor's reference to the underlying file. For shared
// files, releasing the final reference closes the file. Subsequent calls are
// no-ops.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.handle.Release()
}
