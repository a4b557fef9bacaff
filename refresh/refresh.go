// This file defines the "refresh hook".
// A refresh keeps a tab's cache slot and order position but tells the presentation
// layer to throw away the rendered view and mount it again.

package refresh

/*
Hook is the interface for refresh behavior.
It is called after a tab's generation has been bumped. The presentation layer
typically keys the retained view by generation, so a new generation remounts it.

OnRefresh runs on the event path and should not block.
*/
type Hook interface {
	OnRefresh(path string, generation int)
}

// HookFunc adapts a function to Hook.
type HookFunc func(path string, generation int)

func (f HookFunc) OnRefresh(path string, generation int) { f(path, generation) }

// Nop ignores refreshes.
type Nop struct{}

func (Nop) OnRefresh(string, int) {}
