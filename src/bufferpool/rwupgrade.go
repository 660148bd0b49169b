package bufferpool

import "sync"

// upgradableMutex is a reader/writer lock with a third mode: an upgradable
// read, exclusive among upgradable readers and writers but non-blocking for
// plain readers. It is the Go stand-in for the parking_lot-style
// upgradable RwLock the directory's per-slot locking is built on; no
// dependency in the reference pack offers this primitive for Go, so it is
// hand-built on sync.Mutex + sync.Cond in the teacher's own style of
// wrapping sync primitives behind small purpose-built types (see
// UniqueStack's embedded sync.RWMutex in the teacher repo).
type upgradableMutex struct {
	mu   sync.Mutex
	cond sync.Cond

	readers    int
	upgradable bool
	writer     bool
}

func newUpgradableMutex() *upgradableMutex {
	u := &upgradableMutex{}
	u.cond.L = &u.mu
	return u
}

// RLock acquires a plain shared read lock. Any number of plain readers may
// hold the lock concurrently, including alongside a single upgradable
// reader; only a writer excludes them.
func (u *upgradableMutex) RLock() {
	u.mu.Lock()
	for u.writer {
		u.cond.Wait()
	}
	u.readers++
	u.mu.Unlock()
}

// RUnlock releases a plain read lock.
func (u *upgradableMutex) RUnlock() {
	u.mu.Lock()
	u.readers--
	if u.readers == 0 {
		u.cond.Broadcast()
	}
	u.mu.Unlock()
}

// UpgradableRLock acquires the single upgradable-read slot. It blocks
// against other upgradable readers and writers, but not against plain
// readers.
func (u *upgradableMutex) UpgradableRLock() {
	u.mu.Lock()
	for u.writer || u.upgradable {
		u.cond.Wait()
	}
	u.upgradable = true
	u.mu.Unlock()
}

// UpgradableRUnlock releases the upgradable-read slot without upgrading.
func (u *upgradableMutex) UpgradableRUnlock() {
	u.mu.Lock()
	u.upgradable = false
	u.cond.Broadcast()
	u.mu.Unlock()
}

// TryUpgrade attempts to convert the held upgradable read into the
// exclusive writer lock. It succeeds only if no plain readers are active.
// On success the upgradable-read slot is consumed: call Unlock (not
// UpgradableRUnlock) to release. On failure, the upgradable-read slot is
// still held by the caller.
func (u *upgradableMutex) TryUpgrade() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.readers != 0 {
		return false
	}
	u.upgradable = false
	u.writer = true
	return true
}

// DowngradeToRead atomically converts a held upgradable read into a plain
// read, without ever exposing a window where neither lock is held.
func (u *upgradableMutex) DowngradeToRead() {
	u.mu.Lock()
	u.upgradable = false
	u.readers++
	u.cond.Broadcast()
	u.mu.Unlock()
}

// Lock acquires the exclusive writer lock directly, bypassing the
// upgradable-read stage. Used by the eviction subprotocol, which never
// holds an upgradable read on the victim slot.
func (u *upgradableMutex) Lock() {
	u.mu.Lock()
	for u.writer || u.upgradable || u.readers > 0 {
		u.cond.Wait()
	}
	u.writer = true
	u.mu.Unlock()
}

// Unlock releases the exclusive writer lock.
func (u *upgradableMutex) Unlock() {
	u.mu.Lock()
	u.writer = false
	u.cond.Broadcast()
	u.mu.Unlock()
}
