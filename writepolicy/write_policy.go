package writepolicy

import "context"

/*
This file defines what a "write policy" is: how the persisted tab order reaches the
storage adapter.

Different shells have different needs:
  - a browser-like session storage is cheap and wants write-through
  - a disk or network adapter wants writes taken off the event path (write-back)

Persistence failures are reported to an ErrorHandler and never retried.
*/

// WritePolicy is the contract that all write policies must follow.
type WritePolicy interface {

	// OnWrite is called with the final order of one event, already encoded.
	OnWrite(ctx context.Context, key, value string)

	// Close is called when the shell shuts down. Pending writes are flushed.
	Close()
}

// ErrorHandler receives failed writes.
type ErrorHandler func(key string, err error)

func ignoreErrors(string, error) {}
