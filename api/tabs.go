package api

import (
	"context"

	keepalive "github.com/krisalay/keepalive-tabs"
	"github.com/krisalay/keepalive-tabs/types"
)

/*
Tabs defines the PUBLIC API of the keep-alive tab shell, as consumed by a
navigation layer and a tab strip. Route resolution, eviction, expiry and
persistence are hidden behind it.

Every mutation is a no-op for unknown paths. None of them return errors: a shell
always settles into a valid state.
*/
type Tabs interface {

	/*
		Navigate reports that the current location changed.

		BEHAVIOR:
		---------
		- Disabled routes bypass the cache; nothing is created or persisted
		- Otherwise expired tabs are dropped first, then the tab of the location
		  is created or refreshed, then the route's capacity is enforced
		- view is the current render of the location; it is retained by the tab
	*/
	Navigate(ctx context.Context, loc types.Location, view types.View)

	// Render replaces the current render of the active tab without navigating.
	Render(view types.View)

	// Expire drops tabs whose TTL has elapsed. Normally driven by a janitor.
	Expire(ctx context.Context)

	/*
		CloseTab closes one tab.

		- Refused for unknown tabs and for the last remaining tab
		- Closing the active tab redirects to the new last tab
	*/
	CloseTab(ctx context.Context, path string)

	// RefreshTab asks the presentation layer to remount a tab's view.
	RefreshTab(ctx context.Context, path string)

	// ReorderTabs replaces the tab order. Unknown keys are ignored.
	ReorderTabs(ctx context.Context, keys []string)

	// DropLeftTabs closes every tab before path.
	DropLeftTabs(ctx context.Context, path string)

	// DropRightTabs closes every tab after path.
	DropRightTabs(ctx context.Context, path string)

	// DropOtherTabs closes every tab but path.
	DropOtherTabs(ctx context.Context, path string)

	// ActivePath is the normalized path of the current location.
	ActivePath() string

	// ActiveKey is the cache key of the current location.
	ActiveKey() string

	// ActiveTabKey is the DOM-safe identifier of ActiveKey.
	ActiveTabKey() string

	// Enabled reports whether the current location is cached.
	Enabled() bool

	// Tabs returns the ordered tabs, content stripped.
	Tabs() []keepalive.Tab

	// Views returns the cached views to render, in order.
	Views() []keepalive.CachedView

	// Close flushes pending persistence and stops background work.
	Close()
}

var _ Tabs = (*keepalive.Shell)(nil)
