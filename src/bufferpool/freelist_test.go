package bufferpool

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeFrameListPopsAllIndicesOnce(t *testing.T) {
	l := newFreeFrameList(8)

	seen := map[int]bool{}
	for i := 0; i < 8; i++ {
		idx, ok := l.pop()
		assert.True(t, ok)
		assert.False(t, seen[idx])
		seen[idx] = true
	}

	_, ok := l.pop()
	assert.False(t, ok)
}

func TestFreeFrameListPushThenPopRoundTrips(t *testing.T) {
	l := newFreeFrameList(1)

	idx, ok := l.pop()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	assert.True(t, l.push(idx))

	idx2, ok := l.pop()
	assert.True(t, ok)
	assert.Equal(t, 0, idx2)
}

// B2-adjacent: concurrent pop/push never loses or duplicates an index.
func TestFreeFrameListConcurrentPopPush(t *testing.T) {
	const n = 200
	l := newFreeFrameList(n)

	var popped []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx, ok := l.pop()
				if !ok {
					return
				}
				assert.True(t, l.push(idx))
				idx, ok = l.pop()
				if !ok {
					return
				}
				mu.Lock()
				popped = append(popped, idx)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Ints(popped)
	expected := make([]int, n)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, popped)
}
