package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.Slots)
	assert.Equal(t, Size-HeaderSize, p.FreeSpace)
}

func TestWriteThenRead(t *testing.T) {
	p := New()
	types := []string{"integer", "varchar"}

	slot, err := p.Write(Tuple{Types: types, Values: []Value{
		{Kind: Integer, Int: 42},
		{Kind: Varchar, Str: "hello"},
	}})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), slot.ID)

	got, err := p.Read(slot.ID, types)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got.Values[0].Int)
	assert.Equal(t, "hello", got.Values[1].Str)
}

func TestWriteMultipleThenReadAll(t *testing.T) {
	p := New()
	types := []string{"integer", "varchar"}

	for i := 0; i < 5; i++ {
		_, err := p.Write(Tuple{Types: types, Values: []Value{
			{Kind: Integer, Int: int32(i)},
			{Kind: Varchar, Str: "row"},
		}})
		require.NoError(t, err)
	}

	all, err := p.ReadAll(types)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, tup := range all {
		assert.Equal(t, int32(i), tup.Values[0].Int)
	}
}

func TestRefreshMetadataRecomputesFromHeader(t *testing.T) {
	p := New()
	types := []string{"integer"}
	_, err := p.Write(Tuple{Types: types, Values: []Value{{Kind: Integer, Int: 7}}})
	require.NoError(t, err)

	var raw [Size]byte
	copy(raw[:], p.Data[:])

	fresh := &Page{Data: raw}
	fresh.RefreshMetadata()

	assert.Equal(t, p.Slots, fresh.Slots)
	assert.Equal(t, p.FreeSpace, fresh.FreeSpace)
}

func TestHasSpace(t *testing.T) {
	p := New()
	ok, err := p.HasSpace(Tuple{Types: []string{"integer"}, Values: []Value{{Kind: Integer, Int: 1}}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadMissingSlotErrors(t *testing.T) {
	p := New()
	_, err := p.Read(99, []string{"integer"})
	assert.Error(t, err)
}
