package bufferpool

import (
	"log/slog"

	"github.com/cespare/xxhash/v2"

	"github.com/anvil-db/clockpool/src/page"
)

type slotState int

const (
	slotEmpty slotState = iota
	slotLive
	slotTombstone
)

// slotEntry is the optional record a directory slot holds.
type slotEntry struct {
	state      slotState
	frameIndex int
	pageID     page.PageID
}

// dirSlot is one directory slot: an upgradable-read/write lock guarding a
// slotEntry.
type dirSlot struct {
	index int
	lock  *upgradableMutex
	entry slotEntry
}

// pageDirectory is the concurrent open-addressing hash table mapping page
// id to frame index, with per-slot locking, linked to the frame arena and
// the clock for access tracking.
//
// Directory geometry: 2*size slots, linear probing, at most 2*size slots
// walked before declaring absence — per distilled spec §3.
type pageDirectory struct {
	size  int // N
	total int // 2N
	slots []dirSlot
	free  *freeFrameList
	clk   *clock
	arena *frameArena
	log   *slog.Logger
}

func newPageDirectory(size int, arena *frameArena, free *freeFrameList, clk *clock, log *slog.Logger) *pageDirectory {
	total := 2 * size
	slots := make([]dirSlot, total)
	for i := range slots {
		slots[i].index = i
		slots[i].lock = newUpgradableMutex()
	}
	return &pageDirectory{
		size:  size,
		total: total,
		slots: slots,
		free:  free,
		clk:   clk,
		arena: arena,
		log:   log,
	}
}

func (d *pageDirectory) homeSlot(id page.PageID) int {
	var idBytes [8]byte
	idBytes[0] = byte(id >> 56)
	idBytes[1] = byte(id >> 48)
	idBytes[2] = byte(id >> 40)
	idBytes[3] = byte(id >> 32)
	idBytes[4] = byte(id >> 24)
	idBytes[5] = byte(id >> 16)
	idBytes[6] = byte(id >> 8)
	idBytes[7] = byte(id)
	h := xxhash.Sum64(idBytes[:])
	return int(h % uint64(d.size))
}

// readPage looks up id. On a hit it marks the access in the clock and
// returns a guard holding the slot's read lock for its entire lifetime.
func (d *pageDirectory) readPage(id page.PageID) (*ReadGuard, bool) {
	h := d.homeSlot(id)

	for i := 0; i < d.total; i++ {
		k := (h + i) % d.total
		s := &d.slots[k]
		s.lock.RLock()

		switch s.entry.state {
		case slotLive:
			if s.entry.pageID == id {
				d.clk.markRead(k)
				frameIdx := s.entry.frameIndex
				return &ReadGuard{pg: d.arena.borrow(frameIdx), unlock: s.lock.RUnlock}, true
			}
			s.lock.RUnlock()
		case slotTombstone:
			s.lock.RUnlock()
		case slotEmpty:
			s.lock.RUnlock()
			return nil, false
		}
	}
	return nil, false
}

// insertPage reserves a frame (popping the free list or evicting) and
// installs a fresh directory entry for id, or discovers a concurrent
// installer already won and returns its page instead.
//
// Exactly one of (existing, fresh, err) is non-nil/non-zero on return.
func (d *pageDirectory) insertPage(id page.PageID) (existing *ReadGuard, fresh *WriteGuard, err error) {
	frameIdx, ok := d.free.pop()
	if !ok {
		frameIdx, ok = d.evict()
		if !ok {
			return nil, nil, ErrNoFreeSlot
		}
	}

	h := d.homeSlot(id)

	for i := 0; i < d.total; i++ {
		k := (h + i) % d.total
		s := &d.slots[k]

	retrySlot:
		s.lock.UpgradableRLock()

		switch s.entry.state {
		case slotLive:
			if s.entry.pageID != id {
				s.lock.UpgradableRUnlock()
				continue
			}
			d.clk.markRead(k)
			s.lock.DowngradeToRead()
			if !d.free.push(frameIdx) {
				d.log.Warn("bufferpool: failed to return reserved frame to free list", "frame", frameIdx)
			}
			return &ReadGuard{pg: d.arena.borrow(s.entry.frameIndex), unlock: s.lock.RUnlock}, nil, nil

		case slotEmpty, slotTombstone:
			if !s.lock.TryUpgrade() {
				s.lock.UpgradableRUnlock()
				goto retrySlot
			}
			s.entry = slotEntry{state: slotLive, frameIndex: frameIdx, pageID: id}
			d.clk.markInserted(k)
			return nil, &WriteGuard{pg: d.arena.borrow(frameIdx), slot: s}, nil
		}
	}

	if !d.free.push(frameIdx) {
		d.log.Warn("bufferpool: failed to return reserved frame to free list", "frame", frameIdx)
	}
	return nil, nil, ErrFailedToInsert
}

// maxEvictAttemptsMultiplier, times the directory's slot count, bounds
// retries when find_victim repeatedly hands back a slot that lost its Live
// state to a concurrent eviction before this goroutine could acquire its
// write lock.
const maxEvictAttemptsMultiplier = 4

// evict runs the eviction subprotocol: ask the clock for a victim slot,
// verify it is still Live under its write lock, tombstone it, and hand the
// freed frame index directly back to the caller (never through the free
// list, which would just be popped again immediately).
func (d *pageDirectory) evict() (int, bool) {
	budget := maxEvictAttemptsMultiplier * d.total
	for attempt := 0; attempt < budget; attempt++ {
		v, ok := d.clk.findVictim()
		if !ok {
			return 0, false
		}

		s := &d.slots[v]
		s.lock.Lock()
		if s.entry.state != slotLive {
			s.lock.Unlock()
			continue
		}

		frameIdx := s.entry.frameIndex
		s.entry = slotEntry{state: slotTombstone}
		d.clk.markEvicted(v)
		s.lock.Unlock()
		return frameIdx, true
	}
	return 0, false
}

// abortInstall rolls a freshly installed-but-unfilled entry back to
// Tombstone and releases its frame, used when the Reader collaborator
// fails to fill the frame. This keeps a failed disk read from leaving a
// Live entry pointing at never-populated page contents — a case the
// distilled spec's error table names but doesn't otherwise resolve.
func (d *pageDirectory) abortInstall(g *WriteGuard) {
	s := g.slot
	frameIdx := s.entry.frameIndex
	s.entry = slotEntry{state: slotTombstone}
	d.clk.markEvicted(s.index)
	s.lock.Unlock()
	if !d.free.push(frameIdx) {
		d.log.Warn("bufferpool: failed to return aborted frame to free list", "frame", frameIdx)
	}
}
