package page

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ValueKind tags which variant a Value holds.
type ValueKind int

const (
	Integer ValueKind = iota
	Varchar
)

// Value is a single typed column value. Only Integer and Varchar are
// supported, matching the original tuple format.
type Value struct {
	Kind ValueKind
	Int  int32
	Str  string
}

// Tuple is a row: an ordered set of typed values, described by types.
type Tuple struct {
	Types  []string
	Values []Value
}

// varcharLength is the on-disk width of a varchar's length prefix.
type varcharLength = uint16

// Encode serializes the tuple's values in type order.
func (t Tuple) Encode() ([]byte, error) {
	var buf []byte
	for i, typ := range t.Types {
		if i >= len(t.Values) {
			return nil, fmt.Errorf("page: tuple missing value for column %d (%s)", i, typ)
		}
		v := t.Values[i]
		switch {
		case strings.EqualFold(typ, "integer"):
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(v.Int))
			buf = append(buf, b[:]...)
		case strings.EqualFold(typ, "varchar"):
			if len(v.Str) > int(^varcharLength(0)) {
				return nil, fmt.Errorf("page: varchar value too long: %d bytes", len(v.Str))
			}
			var lb [2]byte
			binary.BigEndian.PutUint16(lb[:], uint16(len(v.Str)))
			buf = append(buf, lb[:]...)
			buf = append(buf, v.Str...)
		default:
			return nil, fmt.Errorf("page: unsupported column type %q", typ)
		}
	}
	return buf, nil
}

// DecodeTuple parses data according to types, in order.
func DecodeTuple(types []string, data []byte) (Tuple, error) {
	offset := 0
	values := make([]Value, 0, len(types))

	for _, typ := range types {
		switch {
		case strings.EqualFold(typ, "integer"):
			if offset+4 > len(data) {
				return Tuple{}, fmt.Errorf("page: truncated integer column at offset %d", offset)
			}
			i := int32(binary.BigEndian.Uint32(data[offset : offset+4]))
			offset += 4
			values = append(values, Value{Kind: Integer, Int: i})
		case strings.EqualFold(typ, "varchar"):
			if offset+2 > len(data) {
				return Tuple{}, fmt.Errorf("page: truncated varchar length at offset %d", offset)
			}
			length := int(binary.BigEndian.Uint16(data[offset : offset+2]))
			offset += 2
			if offset+length > len(data) {
				return Tuple{}, fmt.Errorf("page: truncated varchar value at offset %d", offset)
			}
			s := string(data[offset : offset+length])
			offset += length
			values = append(values, Value{Kind: Varchar, Str: s})
		default:
			return Tuple{}, fmt.Errorf("page: unsupported column type %q", typ)
		}
	}

	return Tuple{Types: types, Values: values}, nil
}
