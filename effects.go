package keepalive

import "github.com/krisalay/keepalive-tabs/types"

// EventKind tells open notifications from close notifications.
type EventKind string

const (
	EventOpen  EventKind = "open"
	EventClose EventKind = "close"
)

// Reason records why a tab was closed.
type Reason string

const (
	ReasonTTL      Reason = "ttl"
	ReasonCapacity Reason = "capacity"
	ReasonClosed   Reason = "closed"
	ReasonDropped  Reason = "dropped"
)

// Event is one lifecycle notification. Reason is empty for opens.
type Event struct {
	Kind   EventKind
	Reason Reason
	Tab    types.Lifecycle
}

// Redirect asks the navigation collaborator to move to Path.
type Redirect struct {
	Path    string
	Replace bool
}

// Refresh asks the presentation layer to remount the view of Path.
type Refresh struct {
	Path       string
	Generation int
}

/*
Effects are the side effects of one transition, for the caller to execute.

Persist holds the final order of the event when it changed (nil otherwise); no
intermediate order is ever reported. Events are in the order they happened: TTL
closes, then the open of a new entry, then capacity closes.
*/
type Effects struct {
	Persist  []string
	Redirect *Redirect
	Events   []Event
	Refresh  *Refresh
}

// Empty reports whether the transition had no observable effect.
func (fx Effects) Empty() bool {
	return fx.Persist == nil && fx.Redirect == nil && len(fx.Events) == 0 && fx.Refresh == nil
}

// Opened returns the open notifications.
func (fx Effects) Opened() []types.Lifecycle {
	return fx.filter(EventOpen)
}

// Closed returns the close notifications.
func (fx Effects) Closed() []types.Lifecycle {
	return fx.filter(EventClose)
}

func (fx Effects) filter(kind EventKind) []types.Lifecycle {
	var out []types.Lifecycle
	for _, ev := range fx.Events {
		if ev.Kind == kind {
			out = append(out, ev.Tab)
		}
	}
	return out
}

func (fx *Effects) open(ent *types.TabEntry) {
	fx.Events = append(fx.Events, Event{Kind: EventOpen, Tab: ent.Lifecycle()})
}

func (fx *Effects) close(ent *types.TabEntry, reason Reason) {
	fx.Events = append(fx.Events, Event{Kind: EventClose, Reason: reason, Tab: ent.Lifecycle()})
}
