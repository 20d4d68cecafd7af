// Package parallelism provides a fixed-size array of worker Goroutines, each of
// which owns a private cursor over a common file and applies every submitted
// workload through that cursor.
package parallelism

import (
	"runtime"
	"sync"

	"github.com/mutagen-io/sharedfile/pkg/sharedfile"
)

// CursorWork is the interface for workloads executed by a CursorArray.
type CursorWork interface {
	// Do is invoked once per worker with the worker's private cursor, the
	// worker's index, and the number of workers in the array. The cursor's
	// position is whatever the previous workload left it at.
	Do(cursor *sharedfile.Cursor, index, size int) error
}

// CursorWorkFunc adapts a function to the CursorWork interface.
type CursorWorkFunc func(cursor *sharedfile.Cursor, index, size int) error

// Do implements CursorWork.Do.
func (f CursorWorkFunc) Do(cursor *sharedfile.Cursor, index, size int) error {
	return f(cursor, index, size)
}

// cursorWorker is a single worker within a CursorArray.
type cursorWorker struct {
	// cursor is the worker's private cursor. Only the worker Goroutine uses it
	// after construction.
	cursor *sharedfile.Cursor
	// workloads carries workloads to the worker. It is closed on termination.
	workloads chan CursorWork
	// results carries one result per workload, followed by the result of
	// closing the cursor once workloads is closed.
	results chan error
}

// run is the worker Goroutine's loop.
func (w *cursorWorker) run(index, size int) {
	for work := range w.workloads {
		w.results <- work.Do(w.cursor, index, size)
	}
	w.results <- w.cursor.Close()
}

// CursorArray is a fixed set of worker Goroutines, each holding its own clone
// of a source cursor for the lifetime of the array.
type CursorArray struct {
	// lock serializes workload submission and termination.
	lock sync.Mutex
	// workers are the array's workers.
	workers []*cursorWorker
	// terminated indicates whether or not Terminate has been called.
	terminated bool
}

// NewCursorArray creates a worker array whose workers read through clones of
// source. If size is non-positive, one worker per CPU is created. The source
// cursor is not retained and may be closed independently. Cloning happens
// before any worker starts, since a single cursor isn't safe for concurrent
// use.
func NewCursorArray(source *sharedfile.Cursor, size int) *CursorArray {
	if size < 1 {
		size = runtime.NumCPU()
	}
	array := &CursorArray{workers: make([]*cursorWorker, size)}
	for i := range array.workers {
		array.workers[i] = &cursorWorker{
			cursor:    source.Clone(),
			workloads: make(chan CursorWork),
			results:   make(chan error),
		}
	}
	for i, worker := range array.workers {
		go worker.run(i, size)
	}
	return array
}

// Size returns the number of workers in the array.
func (a *CursorArray) Size() int {
	return len(a.workers)
}

// Do runs the workload on every worker and waits for all of them to finish. It
// returns the error of the lowest-indexed failing worker, if any. Concurrent
// calls are serialized. Calling Do after Terminate panics.
func (a *CursorArray) Do(work CursorWork) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.terminated {
		panic("work submitted to terminated cursor array")
	}

	for _, worker := range a.workers {
		worker.workloads <- work
	}
	var result error
	for _, worker := range a.workers {
		if err := <-worker.results; err != nil && result == nil {
			result = err
		}
	}
	return result
}

// Terminate stops the array's workers and closes their cursors, returning the
// first error encountered while closing. Repeated calls are no-ops.
func (a *CursorArray) Terminate() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.terminated {
		return nil
	}
	a.terminated = true

	for _, worker := range a.workers {
		close(worker.workloads)
	}
	var result error
	for _, worker := range a.workers {
		if err := <-worker.results; err != nil && result == nil {
			result = err
		}
	}
	return result
}
