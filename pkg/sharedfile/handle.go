package sharedfile

import (
	"sync/atomic"
)

// Handle is a duplicable reference to a file resource. Each cursor owns exactly
// one reference, obtained either at construction or via Duplicate, and gives it
// up exactly once via Release.
type Handle interface {
	// File returns the underlying file resource.
	File() File
	// Duplicate creates a new reference to the same file resource.
	Duplicate() Handle
	// Release relinquishes a reference to the file resource.
	Release() error
}

// Borrowed is a non-owning Handle. The caller is responsible for ensuring that
// the file outlives every cursor using the handle, and for closing it.
type Borrowed struct {
	// file is the underlying file.
	file File
}

// Borrow creates a new borrowed handle for the specified file.
func Borrow(file File) Borrowed {
	return Borrowed{file}
}

// File implements Handle.File.
func (b Borrowed) File() File {
	return b.file
}

// Duplicate implements Handle.Duplicate.
func (b Borrowed) Duplicate() Handle {
	return b
}

// Release implements Handle.Release. It never closes the underlying file.
func (b Borrowed) Release() error {
	return nil
}

// Shared is an atomically reference-counted Handle. The underlying file is
// closed when the last reference is released. It is safe for concurrent usage.
type Shared struct {
	// file is the underlying file.
	file OwnedFile
	// references is the number of outstanding references.
	references atomic.Int64
}

// Share takes ownership of the specified file and returns a shared handle
// representing a single reference to it.
func Share(file OwnedFile) *Shared {
	shared := &Shared{file: file}
	shared.references.Store(1)
	return shared
}

// File implements Handle.File.
func (s *Shared) File() File {
	return s.file
}

// Duplicate implements Handle.Duplicate. It panics if all references to the
// handle have already been released.
func (s *Shared) Duplicate() Handle {
	for {
		current := s.references.Load()
		if current < 1 {
			panic("duplicate of released shared handle")
		}
		if s.references.CompareAndSwap(current, current+1) {
			return s
		}
	}
}

// Release implements Handle.Release. The release of the final reference closes
// the underlying file and returns any error from that closure.
func (s *Shared) Release() error {
	remaining := s.references.Add(-1)
	if remaining == 0 {
		return s.file.Close()
	} else if remaining < 0 {
		panic("shared handle released too many times")
	}
	return nil
}

// References returns the number of outstanding references to the handle.
func (s *Shared) References() int64 {
	return s.references.Load()
}
