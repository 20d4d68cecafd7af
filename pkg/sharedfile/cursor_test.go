package sharedfile

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mutagen-io/sharedfile/pkg/numeric"
)

// testContents is the file content used by most tests.
const testContents = "hello world"

// createTestFile creates a temporary file with the specified contents and
// opens it for reading. The file is registered for closure (if still open) at
// the end of the test.
func createTestFile(t *testing.T, contents string) *os.File {
	t.Helper()

	// Write the file.
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal("unable to create test file:", err)
	}

	// Open the file and register its closure. Errors from the deferred closure
	// are ignored since some tests close the file themselves.
	file, err := os.Open(path)
	if err != nil {
		t.Fatal("unable to open test file:", err)
	}
	t.Cleanup(func() { file.Close() })

	// Done.
	return file
}

// closeTracker is an OwnedFile that counts closures.
type closeTracker struct {
	File
	// closures is the number of times Close has been called.
	closures int
}

// Close implements io.Closer.Close.
func (c *closeTracker) Close() error {
	c.closures++
	return nil
}

// failingFile is a File whose operations always fail.
type failingFile struct{}

// errFailingFile is the error returned by failingFile.
var errFailingFile = errors.New("device failure")

// ReadAt implements io.ReaderAt.ReadAt.
func (failingFile) ReadAt(_ []byte, _ int64) (int, error) {
	return 0, errFailingFile
}

// Length implements File.Length.
func (failingFile) Length() (uint64, error) {
	return 0, errFailingFile
}

// testFiles returns the set of File implementations over the specified
// contents that should satisfy the cursor contract.
func testFiles(t *testing.T, contents string) map[string]File {
	t.Helper()
	return map[string]File{
		"native": Native(createTestFile(t, contents)),
		"locked": Locked(createTestFile(t, contents)),
		"bytes":  Bytes([]byte(contents)),
	}
}

// TestScenario tests the canonical two-cursor scenario: two cursors read the
// full file independently, and one then seeks relative to the end.
func TestScenario(t *testing.T) {
	for name, file := range testFiles(t, testContents) {
		t.Run(name, func(t *testing.T) {
			a := NewBorrowed(file)
			defer a.Close()
			b := a.Clone()
			defer b.Close()

			// Read the full contents from the first cursor.
			if data, err := io.ReadAll(a); err != nil {
				t.Fatal("unable to read from first cursor:", err)
			} else if string(data) != testContents {
				t.Error("first cursor contents mismatch:", string(data))
			} else if a.Position() != 11 {
				t.Error("first cursor position incorrect:", a.Position())
			}

			// Read the full contents from the second cursor.
			if b.Position() != 0 {
				t.Fatal("second cursor position incorrect before read:", b.Position())
			}
			if data, err := io.ReadAll(b); err != nil {
				t.Fatal("unable to read from second cursor:", err)
			} else if string(data) != testContents {
				t.Error("second cursor contents mismatch:", string(data))
			} else if b.Position() != 11 {
				t.Error("second cursor position incorrect:", b.Position())
			}

			// Seek relative to the end and read the remainder.
			if position, err := a.SeekEnd(-5); err != nil {
				t.Fatal("unable to seek relative to end:", err)
			} else if position != 6 || a.Position() != 6 {
				t.Error("end-relative seek position incorrect:", position, a.Position())
			}
			if data, err := io.ReadAll(a); err != nil {
				t.Fatal("unable to read remainder:", err)
			} else if string(data) != "world" {
				t.Error("remainder mismatch:", string(data))
			}
		})
	}
}

// TestIndependentPositions tests that reads on one cursor don't affect another.
func TestIndependentPositions(t *testing.T) {
	for name, file := range testFiles(t, testContents) {
		t.Run(name, func(t *testing.T) {
			a := NewBorrowed(file)
			b := a.Clone()

			// Read a prefix from the first cursor.
			prefix := make([]byte, 4)
			if _, err := io.ReadFull(a, prefix); err != nil {
				t.Fatal("unable to read prefix:", err)
			}

			// Verify that the second cursor still reads from the start.
			other := make([]byte, 4)
			if _, err := io.ReadFull(b, other); err != nil {
				t.Fatal("unable to read prefix from clone:", err)
			} else if !bytes.Equal(prefix, other) {
				t.Error("cursors returned different prefixes")
			}

			// Verify positions.
			if a.Position() != 4 || b.Position() != 4 {
				t.Error("positions incorrect:", a.Position(), b.Position())
			}
		})
	}
}

// TestReadAdvance tests that reads advance the position by the number of bytes
// read and that end-of-file reads leave it unchanged.
func TestReadAdvance(t *testing.T) {
	cursor := NewBorrowed(Bytes([]byte(testContents)))

	// Perform a partial read.
	buffer := make([]byte, 3)
	if n, err := cursor.Read(buffer); err != nil {
		t.Fatal("unable to read:", err)
	} else if n != 3 || cursor.Position() != 3 {
		t.Error("position not advanced correctly:", n, cursor.Position())
	}

	// Perform an empty read.
	if n, err := cursor.Read(nil); err != nil || n != 0 {
		t.Error("empty read returned unexpected result:", n, err)
	} else if cursor.Position() != 3 {
		t.Error("empty read changed position:", cursor.Position())
	}

	// Read past the end of the file, which should return a short count.
	buffer = make([]byte, 100)
	if n, err := cursor.Read(buffer); err != nil {
		t.Fatal("unable to perform short read:", err)
	} else if n != 8 || cursor.Position() != 11 {
		t.Error("short read advanced incorrectly:", n, cursor.Position())
	}

	// Read at the end of the file.
	if n, err := cursor.Read(buffer); err != io.EOF || n != 0 {
		t.Error("read at end of file returned unexpected result:", n, err)
	} else if cursor.Position() != 11 {
		t.Error("read at end of file changed position:", cursor.Position())
	}
}

// TestReadFailure tests that read failures are returned verbatim and don't
// modify the position.
func TestReadFailure(t *testing.T) {
	cursor := NewBorrowed(failingFile{})
	cursor.SeekStart(7)
	if _, err := cursor.Read(make([]byte, 1)); err != errFailingFile {
		t.Error("read failure not returned verbatim:", err)
	}
	if cursor.Position() != 7 {
		t.Error("failed read changed position:", cursor.Position())
	}
}

// TestSeekStart tests absolute seeking, including beyond the end of the file.
func TestSeekStart(t *testing.T) {
	targets := []uint64{
		100,
		1 << 50,
		numeric.MaxInt64 - 1,
		numeric.MaxInt64,
		numeric.MaxInt64 + 1,
		numeric.MaxUint64,
	}
	for name, file := range testFiles(t, testContents) {
		t.Run(name, func(t *testing.T) {
			cursor := NewBorrowed(file)

			// Read some data to move the position.
			if _, err := cursor.Read(make([]byte, 5)); err != nil {
				t.Fatal("unable to read:", err)
			}

			// Seek twice to the same offset.
			for i := 0; i < 2; i++ {
				if position := cursor.SeekStart(2); position != 2 || cursor.Position() != 2 {
					t.Error("absolute seek position incorrect:", position, cursor.Position())
				}
			}

			// Seek beyond the end of the file and ensure that reads report
			// EOF without moving the cursor.
			for _, target := range targets {
				if position := cursor.SeekStart(target); position != target {
					t.Error("beyond-end seek position incorrect:", position)
				}
				if n, err := cursor.Read(make([]byte, 100)); err != io.EOF || n != 0 {
					t.Errorf("read at %d returned unexpected result: %d, %v", target, n, err)
				} else if cursor.Position() != target {
					t.Error("read beyond end changed position:", cursor.Position())
				}
			}

			// Ensure that the cursor is still usable.
			cursor.SeekStart(6)
			if data, err := io.ReadAll(cursor); err != nil {
				t.Fatal("unable to read after beyond-end seeks:", err)
			} else if string(data) != "world" {
				t.Error("contents after beyond-end seeks mismatch:", string(data))
			}
		})
	}
}

// TestSeekEnd tests end-relative seeking.
func TestSeekEnd(t *testing.T) {
	cursor := NewBorrowed(Bytes([]byte(testContents)))

	// Check every valid non-positive delta.
	for d := int64(0); d <= 11; d++ {
		if position, err := cursor.SeekEnd(-d); err != nil {
			t.Fatal("unable to seek relative to end:", err)
		} else if position != uint64(11-d) {
			t.Error("end-relative position incorrect:", position, "!=", 11-d)
		}
	}

	// Seeking beyond the end is permitted.
	if position, err := cursor.SeekEnd(4); err != nil || position != 15 {
		t.Error("beyond-end seek returned unexpected result:", position, err)
	}

	// Seeking before the start is not.
	cursor.SeekStart(3)
	if _, err := cursor.SeekEnd(-12); !errors.Is(err, ErrInvalidOffset) {
		t.Error("seek before start did not fail with invalid offset:", err)
	} else if cursor.Position() != 3 {
		t.Error("failed seek changed position:", cursor.Position())
	}

	// Length failures are returned verbatim.
	failing := NewBorrowed(failingFile{})
	if _, err := failing.SeekEnd(0); err != errFailingFile {
		t.Error("length failure not returned verbatim:", err)
	}
}

// TestSeekCurrent tests current-relative seeking and overflow rejection.
func TestSeekCurrent(t *testing.T) {
	cursor := NewBorrowed(Bytes([]byte(testContents)))

	// Perform valid relative seeks.
	if position, err := cursor.SeekCurrent(4); err != nil || position != 4 {
		t.Error("forward seek returned unexpected result:", position, err)
	}
	if position, err := cursor.SeekCurrent(-3); err != nil || position != 1 {
		t.Error("backward seek returned unexpected result:", position, err)
	}

	// Define overflow cases.
	testCases := []struct {
		start uint64
		delta int64
	}{
		{1, -2},
		{1, numeric.MaxInt64},
		{numeric.MaxInt64, 1},
		{numeric.MaxInt64 + 1, 0},
		{numeric.MaxInt64 + 1, -1},
		{numeric.MaxUint64, numeric.MinInt64},
	}

	// Verify that each case fails without modifying the position.
	for i, testCase := range testCases {
		cursor.SeekStart(testCase.start)
		if _, err := cursor.SeekCurrent(testCase.delta); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("test case %d: overflow not rejected: %v", i, err)
		} else if cursor.Position() != testCase.start {
			t.Errorf("test case %d: failed seek changed position", i)
		}
	}
}

// TestSeeker tests the io.Seeker adapter.
func TestSeeker(t *testing.T) {
	cursor := NewBorrowed(Bytes([]byte(testContents)))

	// Perform valid seeks.
	if position, err := cursor.Seek(3, io.SeekStart); err != nil || position != 3 {
		t.Error("start seek returned unexpected result:", position, err)
	}
	if position, err := cursor.Seek(2, io.SeekCurrent); err != nil || position != 5 {
		t.Error("current seek returned unexpected result:", position, err)
	}
	if position, err := cursor.Seek(-1, io.SeekEnd); err != nil || position != 10 {
		t.Error("end seek returned unexpected result:", position, err)
	}

	// Perform invalid seeks.
	if _, err := cursor.Seek(-1, io.SeekStart); !errors.Is(err, ErrInvalidOffset) {
		t.Error("negative absolute seek not rejected:", err)
	}
	if _, err := cursor.Seek(0, 42); !errors.Is(err, ErrInvalidOffset) {
		t.Error("invalid whence not rejected:", err)
	}
	if cursor.Position() != 10 {
		t.Error("failed seeks changed position:", cursor.Position())
	}

	// Verify that the cursor composes with io.SectionReader-style consumers.
	section := io.NewSectionReader(cursor, 6, 5)
	if data, err := io.ReadAll(section); err != nil {
		t.Fatal("unable to read section:", err)
	} else if string(data) != "world" {
		t.Error("section contents mismatch:", string(data))
	} else if cursor.Position() != 10 {
		t.Error("section read changed position:", cursor.Position())
	}
}

// TestCloneResetsPosition tests that clones start at position 0 and leave the
// original's position unchanged.
func TestCloneResetsPosition(t *testing.T) {
	original := NewBorrowed(Bytes([]byte(testContents)))
	original.SeekStart(7)
	clone := original.Clone()
	if clone.Position() != 0 {
		t.Error("clone position not reset:", clone.Position())
	}
	if original.Position() != 7 {
		t.Error("original position changed:", original.Position())
	}
}

// TestSharedOwnership tests that a shared file is closed exactly once, when
// the last cursor referencing it is closed.
func TestSharedOwnership(t *testing.T) {
	tracker := &closeTracker{File: Bytes([]byte(testContents))}
	handle := Share(tracker)
	first := New(handle)
	second := first.Clone()
	third := second.Clone()
	if handle.References() != 3 {
		t.Fatal("reference count incorrect:", handle.References())
	}

	// Close all but the last cursor, closing one of them twice.
	for _, cursor := range []*Cursor{first, second, second} {
		if err := cursor.Close(); err != nil {
			t.Fatal("unable to close cursor:", err)
		}
	}
	if tracker.closures != 0 {
		t.Fatal("file closed while references remain")
	} else if handle.References() != 1 {
		t.Fatal("reference count incorrect:", handle.References())
	}

	// The remaining cursor should still be usable.
	if data, err := io.ReadAll(third); err != nil || string(data) != testContents {
		t.Fatal("remaining cursor unusable:", err)
	}

	// Close the final cursor.
	if err := third.Close(); err != nil {
		t.Fatal("unable to close final cursor:", err)
	} else if tracker.closures != 1 {
		t.Error("file not closed exactly once:", tracker.closures)
	}

	// Operations on closed cursors should fail.
	if _, err := third.Read(make([]byte, 1)); !errors.Is(err, fs.ErrClosed) {
		t.Error("read on closed cursor did not fail:", err)
	}
	if _, err := third.SeekEnd(0); !errors.Is(err, fs.ErrClosed) {
		t.Error("end seek on closed cursor did not fail:", err)
	}
}

// TestSharedOwnershipNative tests that closing the last cursor over a native
// file closes the operating system file.
func TestSharedOwnershipNative(t *testing.T) {
	file := createTestFile(t, testContents)
	cursor := NewOwned(Native(file))
	clone := cursor.Clone()
	if err := cursor.Close(); err != nil {
		t.Fatal("unable to close cursor:", err)
	}
	if data, err := io.ReadAll(clone); err != nil || string(data) != testContents {
		t.Fatal("clone unusable after original closed:", err)
	}
	if err := clone.Close(); err != nil {
		t.Fatal("unable to close clone:", err)
	}
	if err := file.Close(); !errors.Is(err, fs.ErrClosed) {
		t.Error("file not closed by final cursor closure:", err)
	}
}

// TestBorrowedNeverCloses tests that borrowed files are never closed.
func TestBorrowedNeverCloses(t *testing.T) {
	tracker := &closeTracker{File: Bytes([]byte(testContents))}
	cursor := NewBorrowed(tracker)
	clone := cursor.Clone()
	cursor.Close()
	clone.Close()
	if tracker.closures != 0 {
		t.Error("borrowed file was closed")
	}
}

// TestCloneOfClosedCursorPanics tests that cloning a closed cursor panics.
func TestCloneOfClosedCursorPanics(t *testing.T) {
	cursor := NewOwned(Bytes(nil))
	cursor.Close()
	defer func() {
		if recover() == nil {
			t.Error("clone of closed cursor did not panic")
		}
	}()
	cursor.Clone()
}

// TestConcurrentReads tests that cursors cloned from a common source can read
// concurrently without interference.
func TestConcurrentReads(t *testing.T) {
	// Create contents large enough to require multiple reads.
	contents := bytes.Repeat([]byte("0123456789abcdef"), 4096)

	for name, file := range testFiles(t, string(contents)) {
		t.Run(name, func(t *testing.T) {
			source := NewOwned(&closeTracker{File: file})
			defer source.Close()

			// Start readers, each with their own clone.
			const readers = 8
			var group sync.WaitGroup
			results := make([][]byte, readers)
			failures := make([]error, readers)
			for i := 0; i < readers; i++ {
				cursor := source.Clone()
				group.Add(1)
				go func(index int) {
					defer group.Done()
					defer cursor.Close()
					buffer := make([]byte, 1000+index)
					var output bytes.Buffer
					_, failures[index] = io.CopyBuffer(struct{ io.Writer }{&output}, cursor, buffer)
					results[index] = output.Bytes()
				}(i)
			}
			group.Wait()

			// Verify results.
			for i := 0; i < readers; i++ {
				if failures[i] != nil {
					t.Error("reader failed:", failures[i])
				} else if !bytes.Equal(results[i], contents) {
					t.Error("reader", i, "returned incorrect contents")
				}
			}
		})
	}
}
