package bufferpool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/anvil-db/clockpool/src/page"
)

// fakeReader is a Reader collaborator backed by an in-memory map, guarded
// by an RWMutex exactly the way the teacher's own MockPool guards its
// frame map. It additionally counts invocations per page id so tests can
// assert the at-most-one-disk-read-per-miss property.
type fakeReader struct {
	m     sync.RWMutex
	pages map[page.PageID][]byte
	reads map[page.PageID]*atomic.Int64
	fail  map[page.PageID]bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		pages: map[page.PageID][]byte{},
		reads: map[page.PageID]*atomic.Int64{},
		fail:  map[page.PageID]bool{},
	}
}

func (f *fakeReader) seed(id page.PageID) {
	f.m.Lock()
	defer f.m.Unlock()
	f.pages[id] = nil
}

func (f *fakeReader) failNext(id page.PageID) {
	f.m.Lock()
	defer f.m.Unlock()
	f.fail[id] = true
}

func (f *fakeReader) ReadPage(id page.PageID, dst *page.Page) error {
	f.m.Lock()
	counter, ok := f.reads[id]
	if !ok {
		counter = &atomic.Int64{}
		f.reads[id] = counter
	}
	shouldFail := f.fail[id]
	if shouldFail {
		f.fail[id] = false
	}
	f.m.Unlock()

	counter.Add(1)
	if shouldFail {
		return fmt.Errorf("fakeReader: injected failure for page %d", id)
	}

	for i := range dst.Data {
		dst.Data[i] = 0
	}
	return nil
}

func (f *fakeReader) PageCount() (uint64, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	return uint64(len(f.pages)), nil
}

func (f *fakeReader) readCount(id page.PageID) int64 {
	f.m.RLock()
	defer f.m.RUnlock()
	c, ok := f.reads[id]
	if !ok {
		return 0
	}
	return c.Load()
}
