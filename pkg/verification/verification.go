// Package verification drives many cursors over a single shared file
// concurrently, either to confirm that independent readers observe identical
// contents or to assemble the file from concurrently read stripes.
package verification

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/mutagen-io/sharedfile/pkg/logging"
	"github.com/mutagen-io/sharedfile/pkg/numeric"
	"github.com/mutagen-io/sharedfile/pkg/parallelism"
	"github.com/mutagen-io/sharedfile/pkg/sharedfile"
	"github.com/mutagen-io/sharedfile/pkg/stream"
)

// DefaultBufferSize is the read buffer size used by each worker when no buffer
// size is specified.
const DefaultBufferSize = 64 * 1024

// Result is the outcome of a single worker's pass over a file.
type Result struct {
	// Worker is the index of the worker that produced the result.
	Worker int
	// Size is the number of bytes read by the worker.
	Size uint64
	// Digest is the SHA-256 digest of the bytes read by the worker.
	Digest []byte
}

// String provides a human-readable representation of the result.
func (r Result) String() string {
	return fmt.Sprintf("worker %d: %x (%d bytes)", r.Worker, r.Digest, r.Size)
}

// Consistent returns whether or not all results agree on size and digest. An
// empty set of results is trivially consistent.
func Consistent(results []Result) bool {
	for _, result := range results {
		if result.Size != results[0].Size || !bytes.Equal(result.Digest, results[0].Digest) {
			return false
		}
	}
	return true
}

// Verifier runs verification workloads over a single file using a fixed set of
// workers, each reading through its own clone of a source cursor.
type Verifier struct {
	// logger is the underlying logger.
	logger *logging.Logger
	// workers is the worker array.
	workers *parallelism.CursorArray
	// bufferSize is the per-worker read buffer size.
	bufferSize int
}

// NewVerifier creates a new verifier over the file underlying source. If
// workers is non-positive, one worker per CPU is used. If bufferSize is
// non-positive, DefaultBufferSize is used. The source cursor is only cloned, so
// its position is never modified, and it may be closed before the verifier is
// shut down.
func NewVerifier(logger *logging.Logger, source *sharedfile.Cursor, workers, bufferSize int) *Verifier {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Verifier{
		logger:     logger,
		workers:    parallelism.NewCursorArray(source, workers),
		bufferSize: bufferSize,
	}
}

// Workers returns the number of workers used by the verifier.
func (v *Verifier) Workers() int {
	return v.workers.Size()
}

// Shutdown terminates the verifier's workers and releases their cursors.
func (v *Verifier) Shutdown() error {
	return v.workers.Terminate()
}

// Digest has every worker read the entire file from the beginning and returns
// each worker's digest.
func (v *Verifier) Digest() ([]Result, error) {
	results := make([]Result, v.workers.Size())
	err := v.workers.Do(parallelism.CursorWorkFunc(func(cursor *sharedfile.Cursor, index, _ int) error {
		logger := v.logger.Sublogger(fmt.Sprintf("worker%d", index))

		// Copy the full contents of the file into a hasher.
		cursor.SeekStart(0)
		hasher := stream.NewHashedWriter(nil, sha256.New())
		buffer := make([]byte, v.bufferSize)
		if _, err := io.CopyBuffer(hasher, cursor, buffer); err != nil {
			return errors.Wrapf(err, "worker %d unable to read file", index)
		}
		logger.Debugf("Read %d bytes", hasher.Count())

		// Record the result.
		results[index] = Result{
			Worker: index,
			Size:   hasher.Count(),
			Digest: hasher.Sum(),
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	// Done.
	return results, nil
}

// Load reads the entire contents of the file by dividing it into contiguous
// stripes, one per worker.
func (v *Verifier) Load() ([]byte, error) {
	// Query the file length through the first worker's cursor and allocate
	// storage.
	var length uint64
	err := v.workers.Do(parallelism.CursorWorkFunc(func(cursor *sharedfile.Cursor, index, _ int) error {
		if index != 0 {
			return nil
		}
		var err error
		length, err = cursor.Length()
		return err
	}))
	if err != nil {
		return nil, errors.Wrap(err, "unable to determine file length")
	} else if length > uint64(numeric.MaxInt) {
		return nil, errors.Errorf("file too large to load (%d bytes)", length)
	}
	contents := make([]byte, int(length))

	// Perform the work.
	err = v.workers.Do(parallelism.CursorWorkFunc(func(cursor *sharedfile.Cursor, index, size int) error {
		logger := v.logger.Sublogger(fmt.Sprintf("worker%d", index))

		// Compute this worker's stripe.
		start, end := stripe(length, index, size)
		if start == end {
			return nil
		}
		logger.Debugf("Loading stripe [%d, %d)", start, end)

		// Read the stripe.
		cursor.SeekStart(start)
		if _, err := io.ReadFull(cursor, contents[start:end]); err != nil {
			return errors.Wrapf(err, "worker %d unable to read stripe at offset %d", index, start)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	// Done.
	return contents, nil
}

// stripe computes the half-open byte range of a file of the specified length
// assigned to the worker at the specified index. Stripes are contiguous and
// differ in size by at most one byte.
func stripe(length uint64, index, size int) (uint64, uint64) {
	n := uint64(size)
	base, remainder := length/n, length%n
	i := uint64(index)
	start := i*base + min(i, remainder)
	end := start + base
	if i < remainder {
		end++
	}
	return start, end
}
