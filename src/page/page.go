// Package page implements the fixed-size on-disk page format used by the
// persistence layer: a byte header, a forward-growing slot directory, and
// tuple payloads packed backward from the end of the page.
package page

import (
	"encoding/binary"
	"fmt"
)

// Size is the fixed frame size agreed between the buffer pool, the reader,
// and the on-disk layout.
const Size = 8 * 1024

// PageID names a page on disk. Two pages with the same id denote the same
// bytes.
type PageID = uint64

// HeaderSize covers the format version and slot count.
const HeaderSize = 4

// SlotSize is the encoded size of one directory slot: id, length, tombstone.
const SlotSize = 5

// Slot describes one entry in a page's slot directory.
type Slot struct {
	ID        uint16
	Length    uint16
	Tombstone bool
}

func readSlot(b []byte) Slot {
	return Slot{
		ID:        binary.BigEndian.Uint16(b[0:2]),
		Length:    binary.BigEndian.Uint16(b[2:4]),
		Tombstone: b[4] != 0,
	}
}

func (s Slot) encode() [SlotSize]byte {
	var out [SlotSize]byte
	binary.BigEndian.PutUint16(out[0:2], s.ID)
	binary.BigEndian.PutUint16(out[2:4], s.Length)
	if s.Tombstone {
		out[4] = 1
	}
	return out
}

// Page is a fixed-size byte frame plus metadata recomputed from its header.
// The buffer pool core treats a Page as an owned buffer whose contents it
// neither inspects nor modifies beyond the ID field.
type Page struct {
	ID        PageID
	Data      [Size]byte
	Slots     int
	FreeSpace int
}

// New returns a freshly formatted, empty page.
func New() *Page {
	p := &Page{}
	binary.BigEndian.PutUint16(p.Data[0:2], 1) // format version
	binary.BigEndian.PutUint16(p.Data[2:4], 0) // slot count
	p.FreeSpace = Size - HeaderSize
	return p
}

// RefreshMetadata recomputes Slots and FreeSpace from the raw header and
// slot directory. Called by the buffer pool right after a fresh disk read
// fills Data.
func (p *Page) RefreshMetadata() {
	slots := int(binary.BigEndian.Uint16(p.Data[2:4]))
	dataSize := 0
	for i := 0; i < slots; i++ {
		off := HeaderSize + i*SlotSize
		s := readSlot(p.Data[off : off+SlotSize])
		dataSize += int(s.Length)
	}
	p.Slots = slots
	p.FreeSpace = Size - HeaderSize - slots*SlotSize - dataSize
}

func (p *Page) existingDataLength() int {
	total := 0
	for i := 0; i < p.Slots; i++ {
		off := HeaderSize + i*SlotSize
		s := readSlot(p.Data[off : off+SlotSize])
		total += int(s.Length)
	}
	return total
}

// HasSpace reports whether tuple fits in the page's remaining free space.
func (p *Page) HasSpace(t Tuple) (bool, error) {
	data, err := t.Encode()
	if err != nil {
		return false, err
	}
	return len(data)+SlotSize <= p.FreeSpace, nil
}

// Write appends tuple's encoded bytes and a new slot, returning the slot
// written. Panics if the tuple's length overflows a slot length field —
// overflow pages are not implemented.
func (p *Page) Write(t Tuple) (Slot, error) {
	data, err := t.Encode()
	if err != nil {
		return Slot{}, err
	}
	if len(data) > int(^uint16(0)) {
		panic("page: tuple too large to write, overflow pages not supported")
	}

	existingLen := p.existingDataLength()
	slotStart := p.Slots*SlotSize + HeaderSize
	dataStart := len(p.Data) - existingLen

	slot := Slot{ID: uint16(p.Slots), Length: uint16(len(data))}
	encoded := slot.encode()

	p.Slots++
	p.FreeSpace -= len(encoded) + len(data)

	binary.BigEndian.PutUint16(p.Data[2:4], uint16(p.Slots))
	copy(p.Data[slotStart:slotStart+len(encoded)], encoded[:])
	copy(p.Data[dataStart-len(data):dataStart], data)

	return slot, nil
}

// Read decodes the tuple stored at slotID, interpreting its bytes per types.
func (p *Page) Read(slotID uint16, types []string) (Tuple, error) {
	dataOffset := 0
	for i := 0; i < p.Slots; i++ {
		off := HeaderSize + i*SlotSize
		s := readSlot(p.Data[off : off+SlotSize])
		dataOffset += int(s.Length)
		if s.ID == slotID {
			n := len(p.Data)
			return DecodeTuple(types, p.Data[n-dataOffset:n-dataOffset+int(s.Length)])
		}
	}
	return Tuple{}, fmt.Errorf("page: cannot read tuple for slot %d", slotID)
}

// ReadAll decodes every slot's tuple, in slot order. The slot tombstone
// flag is not consulted, so tombstoned slots are decoded too.
func (p *Page) ReadAll(types []string) ([]Tuple, error) {
	out := make([]Tuple, 0, p.Slots)
	dataOffset := 0
	n := len(p.Data)
	for i := 0; i < p.Slots; i++ {
		off := HeaderSize + i*SlotSize
		s := readSlot(p.Data[off : off+SlotSize])
		dataOffset += int(s.Length)
		t, err := DecodeTuple(types, p.Data[n-dataOffset:n-dataOffset+int(s.Length)])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
