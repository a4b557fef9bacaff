package types

// This file defines how the tab manager reports what it is doing.

/*
Metrics is an interface that defines what the tab manager wants to measure.
Each method represents an event in the tab lifecycle.
*/
type Metrics interface {

	// Hit is called when navigation lands on an entry that is already cached.
	Hit()

	// Miss is called when navigation has to create a new entry.
	Miss()

	// Eviction is called when an entry is removed by the capacity sweep.
	Eviction()

	// Expire is called when an entry is removed by the TTL sweep.
	Expire()

	// Close is called when an entry is removed by an explicit or range close.
	Close()

	// Refresh is called when an entry's generation is bumped.
	Refresh()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics, so callers that
don't care about metrics never need nil checks.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
func (NoopMetrics) Close()    {}
func (NoopMetrics) Refresh()  {}
