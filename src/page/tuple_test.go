package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	types := []string{"integer", "varchar", "varchar"}
	tup := Tuple{Types: types, Values: []Value{
		{Kind: Integer, Int: -17},
		{Kind: Varchar, Str: "alice"},
		{Kind: Varchar, Str: ""},
	}}

	data, err := tup.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTuple(types, data)
	require.NoError(t, err)
	assert.Equal(t, tup.Values, decoded.Values)
}

func TestDecodeTruncatedIntegerErrors(t *testing.T) {
	_, err := DecodeTuple([]string{"integer"}, []byte{0x01})
	assert.Error(t, err)
}

func TestDecodeUnsupportedTypeErrors(t *testing.T) {
	_, err := DecodeTuple([]string{"float"}, []byte{0x00})
	assert.Error(t, err)
}

func TestEncodeCaseInsensitiveTypes(t *testing.T) {
	tup := Tuple{Types: []string{"INTEGER"}, Values: []Value{{Kind: Integer, Int: 5}}}
	_, err := tup.Encode()
	assert.NoError(t, err)
}
