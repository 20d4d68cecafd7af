// Package stream provides stream adapters used when consuming cursors.
package stream

import (
	"hash"
	"io"
)

// HashedWriter is an io.Writer that attaches a hash function to an existing
// writer, ensuring that the hash processes all bytes that are successfully
// written to the associated writer. It also tracks the number of such bytes.
type HashedWriter struct {
	// writer is the underlying writer.
	writer io.Writer
	// hasher is the associated hash function.
	hasher hash.Hash
	// count is the number of bytes successfully written.
	count uint64
}

// NewHashedWriter creates a new hashed writer. If writer is nil, written data
// is only hashed.
func NewHashedWriter(writer io.Writer, hasher hash.Hash) *HashedWriter {
	if writer == nil {
		writer = io.Discard
	}
	return &HashedWriter{writer: writer, hasher: hasher}
}

// Write implements io.Writer.Write.
func (w *HashedWriter) Write(data []byte) (int, error) {
	// Write to the underlying writer.
	n, err := w.writer.Write(data)

	// Write the corresponding bytes to the hasher. This write can't fail, so we
	// can safely assume that all provided bytes are processed.
	w.hasher.Write(data[:n])
	w.count += uint64(n)

	// Done.
	return n, err
}

// Count returns the number of bytes successfully written.
func (w *HashedWriter) Count() uint64 {
	return w.count
}

// Sum returns the digest of all bytes successfully written.
func (w *HashedWriter) Sum() []byte {
	return w.hasher.Sum(nil)
}
