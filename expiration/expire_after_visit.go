package expiration

import (
	"time"

	"github.com/krisalay/keepalive-tabs/types"
)

/*
ExpireAfterVisit is a sliding TTL: every visit pushes the deadline forward by TTL.
As long as a tab keeps being opened it stays cached; a tab left alone for TTL is
dropped by the next sweep.
*/
type ExpireAfterVisit struct {
	TTL time.Duration
}

func (e *ExpireAfterVisit) IsExpired(ent *types.TabEntry, now time.Time) bool {
	return isPastDeadline(ent, now)
}

func (e *ExpireAfterVisit) OnVisit(ent *types.TabEntry, now time.Time) {
	ent.ExpireAt = now.Add(e.TTL)
}

// Never clears any deadline. A route whose policy has no TTL removes the deadline a
// previous policy may have set on the same key.
type Never struct{}

func (Never) IsExpired(*types.TabEntry, time.Time) bool { return false }

func (Never) OnVisit(ent *types.TabEntry, _ time.Time) {
	ent.ExpireAt = time.Time{}
}
