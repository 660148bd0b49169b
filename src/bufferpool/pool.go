// Package bufferpool implements an on-demand, concurrent buffer pool for a
// disk-resident page store: a bounded in-memory cache of fixed-size pages,
// served on the read hot path under per-slot read locks only (no pool-wide
// lock), evicted under pressure by a CLOCK
// (second-chance) policy, with at-most-one physical read per missing page
// across concurrent requesters.
package bufferpool

import (
	"fmt"
	"log/slog"

	"github.com/anvil-db/clockpool/src/page"
)

// Reader is the external collaborator that fills a Page frame from disk.
// persist.Reader implements this contract.
type Reader interface {
	ReadPage(pageID page.PageID, dst *page.Page) error
	PageCount() (uint64, error)
}

// ReadGuard is a scoped token that keeps a served page borrowed. Its
// lifetime holds either a plain read lock on a hit (FromPool) or the
// still-held write lock from a fresh install (FromDisk) — the pool never
// downgrades a fresh install's write lock, it simply leaves it held until
// Release.
type ReadGuard struct {
	pg       *page.Page
	unlock   func()
	fromDisk bool
}

// Page borrows the guard's underlying frame. Valid while the guard lives.
func (g *ReadGuard) Page() *page.Page { return g.pg }

// FromDisk reports whether this guard came from a fresh disk read (true)
// or an existing resident page (false).
func (g *ReadGuard) FromDisk() bool { return g.fromDisk }

// Release gives up the guard's lock. Calling it again after the first call,
// or on a guard with a nil unlock, is a no-op.
func (g *ReadGuard) Release() {
	if g.unlock != nil {
		g.unlock()
		g.unlock = nil
	}
}

// WriteGuard is the directory's internal handle on a freshly installed,
// not-yet-filled entry. It is consumed by BufferPool.Get, which either
// turns it into a ReadGuard after a successful disk fill or aborts the
// install on failure.
type WriteGuard struct {
	pg   *page.Page
	slot *dirSlot
}

// Page borrows the guard's underlying (not-yet-filled) frame.
func (g *WriteGuard) Page() *page.Page { return g.pg }

func (g *WriteGuard) toReadGuard() *ReadGuard {
	return &ReadGuard{pg: g.pg, unlock: g.slot.lock.Unlock, fromDisk: true}
}

// BufferPool is the facade combining the frame arena, free list, clock,
// and page directory with a Reader, implementing the get-or-load protocol.
type BufferPool struct {
	dir    *pageDirectory
	reader Reader
	log    *slog.Logger
}

// New constructs a pool of size frames bound to reader. size must be at
// least 1.
func New(size int, reader Reader) (*BufferPool, error) {
	return NewWithLogger(size, reader, slog.Default())
}

// NewWithLogger is New with an explicit logger, for callers (and the demo
// CLI) that want pool events routed through their own slog.Logger.
func NewWithLogger(size int, reader Reader, log *slog.Logger) (*BufferPool, error) {
	if size < 1 {
		return nil, fmt.Errorf("bufferpool: size must be >= 1, got %d", size)
	}
	if log == nil {
		log = slog.Default()
	}

	arena := newFrameArena(size)
	free := newFreeFrameList(size)
	clk := newClock(2 * size)
	dir := newPageDirectory(size, arena, free, clk, log)

	log.Debug("bufferpool: constructed", "frames", size, "directory_slots", dir.total)

	return &BufferPool{dir: dir, reader: reader, log: log}, nil
}

// Get returns a guard over pageID's resident page, loading it from disk on
// a miss. Concurrent Get calls for the same id are guaranteed to invoke the
// Reader at most once per eviction generation of id: the thread that wins
// the install race fills the frame while still holding the slot's write
// lock, so no other goroutine can observe a half-filled frame.
func (p *BufferPool) Get(pageID page.PageID) (*ReadGuard, error) {
	if g, ok := p.dir.readPage(pageID); ok {
		return g, nil
	}

	existing, fresh, err := p.dir.insertPage(pageID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err := p.reader.ReadPage(pageID, fresh.Page()); err != nil {
		p.dir.abortInstall(fresh)
		p.log.Warn("bufferpool: disk read failed, install aborted", "page_id", pageID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFailedToReadFromDisk, err)
	}

	fresh.Page().ID = pageID
	fresh.Page().RefreshMetadata()

	return fresh.toReadGuard(), nil
}
