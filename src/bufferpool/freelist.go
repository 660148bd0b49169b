package bufferpool

import (
	"runtime"
	"sync/atomic"
)

// maxCASRetries bounds the spin on CAS failure for both pop and push,
// matching the distilled spec's "bounded retry (e.g. 100)".
const maxCASRetries = 100

// freeFrameNode is a Treiber stack node. It is never mutated after
// construction and never reused across pops — a fresh node is allocated on
// every push — which sidesteps the ABA problem without hazard pointers,
// at the cost of one allocation per push.
type freeFrameNode struct {
	value int
	next  *freeFrameNode
}

// freeFrameList is a lock-free LIFO of currently-unused frame indices,
// implemented as a Treiber stack with compare-and-swap on the head
// pointer.
type freeFrameList struct {
	head atomic.Pointer[freeFrameNode]
}

// newFreeFrameList returns a list holding indices [0, n), with index 0 on
// top.
func newFreeFrameList(n int) *freeFrameList {
	l := &freeFrameList{}
	for i := n - 1; i >= 0; i-- {
		if !l.push(i) {
			panic("bufferpool: free list construction should never contend")
		}
	}
	return l
}

// pop removes and returns an index, or reports empty.
func (l *freeFrameList) pop() (int, bool) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		old := l.head.Load()
		if old == nil {
			return 0, false
		}
		if l.head.CompareAndSwap(old, old.next) {
			return old.value, true
		}
		backoff(attempt)
	}
	return 0, false
}

// push inserts index back onto the stack.
func (l *freeFrameList) push(index int) bool {
	node := &freeFrameNode{value: index}
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		old := l.head.Load()
		node.next = old
		if l.head.CompareAndSwap(old, node) {
			return true
		}
		backoff(attempt)
	}
	return false
}

// backoff gives way to other goroutines on CAS contention; a handful of
// spins before yielding the scheduler rather than an unconditional sleep.
func backoff(attempt int) {
	if attempt < 4 {
		return
	}
	runtime.Gosched()
}
