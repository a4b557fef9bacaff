package writepolicy

import (
	"context"

	"github.com/krisalay/keepalive-tabs/types"
)

/*
WriteThroughPolicy forwards every write to the storage adapter synchronously.
The event is not done until the adapter returns.
*/
type WriteThroughPolicy struct {
	store   types.Storage
	onError ErrorHandler
}

// NewWriteThroughPolicy creates a new write-through policy. A nil onError drops errors.
func NewWriteThroughPolicy(store types.Storage, onError ErrorHandler) *WriteThroughPolicy {
	if onError == nil {
		onError = ignoreErrors
	}
	return &WriteThroughPolicy{store: store, onError: onError}
}

func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key, value string) {
	if err := ctx.Err(); err != nil {
		w.onError(key, err)
		return
	}
	if err := w.store.Write(key, value); err != nil {
		w.onError(key, err)
	}
}

// Close has nothing to flush.
func (w *WriteThroughPolicy) Close() {}
