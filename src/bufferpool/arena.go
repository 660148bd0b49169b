package bufferpool

import "github.com/anvil-db/clockpool/src/page"

// frameArena owns the N fixed-size page frames and hands out stable
// pointers into them. It performs no synchronization itself: safe
// concurrent access is delegated to the directory's per-slot locks, which
// serialize writers to any given frame, and to the no-eviction-while-
// borrowed rule enforced by those same locks.
type frameArena struct {
	frames []*page.Page
}

func newFrameArena(n int) *frameArena {
	frames := make([]*page.Page, n)
	for i := range frames {
		frames[i] = page.New()
	}
	return &frameArena{frames: frames}
}

// borrow returns the stable frame for index i. The caller must already
// hold whatever directory lock protects frame i's tenure.
func (a *frameArena) borrow(i int) *page.Page {
	return a.frames[i]
}
