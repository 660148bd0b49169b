package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-db/clockpool/src/page"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "simple.data")
	r := NewReader(dir, "simple.data")

	p := page.New()
	_, err := p.Write(page.Tuple{Types: []string{"integer"}, Values: []page.Value{{Kind: page.Integer, Int: 123}}})
	require.NoError(t, err)

	require.NoError(t, w.InsertPage(p))

	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	dst := page.New()
	require.NoError(t, r.ReadPage(0, dst))
	dst.RefreshMetadata()
	assert.Equal(t, p.Slots, dst.Slots)
}

func TestPageCountGrowsWithAppends(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "simple.data")
	r := NewReader(dir, "simple.data")

	for i := 0; i < 3; i++ {
		require.NoError(t, w.InsertPage(page.New()))
	}

	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestReadPageOutOfRangeErrors(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "simple.data")
	require.NoError(t, w.InsertPage(page.New()))

	r := NewReader(dir, "simple.data")
	dst := page.New()
	err := r.ReadPage(5, dst)
	assert.Error(t, err)
}
