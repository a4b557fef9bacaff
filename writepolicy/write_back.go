package writepolicy

import (
	"context"
	"sync"

	"github.com/krisalay/keepalive-tabs/types"
)

// This file implements the "write-back" policy.

/*
WriteBackPolicy hands writes to a background worker.

Unlike a generic write-back cache it never drops a write under pressure: writes to
the same key are coalesced and only the latest value is kept, because each value
is a complete order snapshot and older snapshots are worthless once a newer one
exists. Keys are flushed in the order they first became pending.
*/
type WriteBackPolicy struct {
	store   types.Storage
	onError ErrorHandler

	mu      sync.Mutex
	pending map[string]string
	queue   []string
	closed  bool

	// flushMu serializes flushes so two flushers never reorder writes of one key.
	flushMu sync.Mutex

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewWriteBackPolicy creates a new write-back policy and starts its worker.
func NewWriteBackPolicy(store types.Storage, onError ErrorHandler) *WriteBackPolicy {
	if onError == nil {
		onError = ignoreErrors
	}
	w := &WriteBackPolicy{
		store:   store,
		onError: onError,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the value. The context only bounds queueing; the write itself
// happens later, detached from the event.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, key, value string) {
	if err := ctx.Err(); err != nil {
		w.onError(key, err)
		return
	}

	w.mu.Lock()
	if _, queued := w.pending[key]; !queued {
		w.queue = append(w.queue, key)
	}
	w.pending[key] = value
	closed := w.closed
	w.mu.Unlock()

	if closed {
		// No worker is left. Flush here, behind any flush still writing an
		// older value of this key.
		w.flush()
		return
	}

	select {
	case w.wake <- struct{}{}:
	default:
		// worker already signalled
	}
}

// Flush writes everything pending and returns when done.
func (w *WriteBackPolicy) Flush() {
	w.flush()
}

// Pending reports how many keys wait for the worker.
func (w *WriteBackPolicy) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.done:
			w.flush()
			return
		}
	}
}

func (w *WriteBackPolicy) flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		key := w.queue[0]
		w.queue = w.queue[1:]
		value := w.pending[key]
		delete(w.pending, key)
		w.mu.Unlock()

		if err := w.store.Write(key, value); err != nil {
			w.onError(key, err)
		}
	}
}

/*
Close shuts down the write-back policy gracefully:
 1. stop accepting queued writes
 2. wait for the worker to flush what is pending
*/
func (w *WriteBackPolicy) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
}
