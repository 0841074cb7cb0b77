package store

import "sync"

// workerLocks hands out one mutex per worker so that calendar mutations for
// the same worker serialize while different workers proceed in parallel.
// The full load-rebuild-write cycle of an assign runs under this lock; without
// it two concurrent writers would each rebuild from the same snapshot and the
// second write would silently drop the first ("lost update").
type workerLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newWorkerLocks() *workerLocks {
	return &workerLocks{locks: make(map[int64]*sync.Mutex)}
}

// get returns the mutex for a worker, creating it on first use.
func (w *workerLocks) get(workerID int64) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.locks[workerID]
	if !ok {
		l = &sync.Mutex{}
		w.locks[workerID] = l
	}
	return l
}
