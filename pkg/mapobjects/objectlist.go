package mapobjects

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Object table errors.
var (
	ErrMissingSentinel   = errors.New("collection not terminated before end of ROM")
	ErrEmptyPointerTable = errors.New("pointer table has no slots")
	ErrOutOfRange        = errors.New("area or record index out of range")
	ErrRegionOverflow    = errors.New("object table does not fit its original region")
)

// ROM is byte-addressed access to the ROM image.
type ROM interface {
	Get(offset, length int) ([]byte, error)
	Put(offset int, data []byte) error
}

// Layout locates the area pointer table in the ROM.
type Layout struct {
	PointerTable int // absolute offset of the first slot
	SlotCount    int // number of 2-byte slots
	DataBase     int // absolute address slot offsets are relative to
}

// DefaultLayout returns the location of the table in the US 1.1 ROM.
func DefaultLayout() Layout {
	return Layout{
		PointerTable: 0x0B8000,
		SlotCount:    0x6C,
		DataBase:     0x0B8000,
	}
}

// ChestEntry links a chest reward id to the record that holds it.
type ChestEntry struct {
	Value      byte
	Collection int
	Index      int
}

// ObjectList is the in-memory model of the whole object table.
//
// Adjacent pointer slots carrying the same offset share one collection and
// one header; slots maps every pointer slot to its collection index.
type ObjectList struct {
	layout      Layout
	collections [][]Record
	headers     [][HeaderSize]byte
	slots       []int
	pointers    []uint16
	chests      []ChestEntry
	regionStart int // relative to DataBase, lowest area offset
	regionEnd   int // relative to DataBase, one past the last sentinel
	specials    Specials

	log *zap.Logger
}

// Load reads the pointer table and every area collection it references.
func Load(rom ROM, layout Layout) (*ObjectList, error) {
	if layout.SlotCount <= 0 {
		return nil, ErrEmptyPointerTable
	}

	table, err := rom.Get(layout.PointerTable, layout.SlotCount*2)
	if err != nil {
		return nil, fmt.Errorf("reading pointer table: %w", err)
	}

	ol := &ObjectList{
		layout:   layout,
		slots:    make([]int, 0, layout.SlotCount),
		pointers: make([]uint16, layout.SlotCount),
		specials: DefaultSpecials(),
		log:      zap.NewNop(),
	}

	for i := range ol.pointers {
		ol.pointers[i] = binary.LittleEndian.Uint16(table[i*2:])
	}

	for i, ptr := range ol.pointers {
		if i != 0 && ptr == ol.pointers[i-1] {
			ol.slots = append(ol.slots, len(ol.collections)-1)
			continue
		}
		ol.slots = append(ol.slots, len(ol.collections))
		if len(ol.collections) == 0 {
			ol.regionStart = int(ptr)
		}
		ol.regionStart = min(ol.regionStart, int(ptr))

		end, err := ol.readArea(rom, layout.DataBase+int(ptr))
		if err != nil {
			return nil, fmt.Errorf("slot %#02x at offset %#04x: %w", i, ptr, err)
		}
		ol.regionEnd = max(ol.regionEnd, end-layout.DataBase)
	}

	for c, records := range ol.collections {
		for r := range records {
			if records[r].Type == Chest {
				ol.chests = append(ol.chests, ChestEntry{Value: records[r].Value, Collection: c, Index: r})
			}
		}
	}

	return ol, nil
}

// readArea reads one header and the records that follow it up to the
// sentinel. It returns the address just past the sentinel.
func (ol *ObjectList) readArea(rom ROM, address int) (int, error) {
	header, err := rom.Get(address, HeaderSize)
	if err != nil {
		return 0, fmt.Errorf("%w: reading header: %v", ErrMissingSentinel, err)
	}
	ol.headers = append(ol.headers, [HeaderSize]byte(header))
	address += HeaderSize

	var records []Record
	for {
		first, err := rom.Get(address, 1)
		if err != nil {
			return 0, fmt.Errorf("%w: after %d records: %v", ErrMissingSentinel, len(records), err)
		}
		if first[0] == Sentinel {
			break
		}

		raw, err := rom.Get(address, RecordSize)
		if err != nil {
			return 0, fmt.Errorf("%w: truncated record %d: %v", ErrMissingSentinel, len(records), err)
		}
		records = append(records, DecodeRecord([RecordSize]byte(raw)))
		address += RecordSize
	}

	ol.collections = append(ol.collections, records)
	return address + 1, nil
}

// SetLogger sets the logger used by the randomization passes.
func (ol *ObjectList) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	ol.log = log
}

// Len returns the number of distinct collections.
func (ol *ObjectList) Len() int {
	return len(ol.collections)
}

// SlotCount returns the number of pointer slots.
func (ol *ObjectList) SlotCount() int {
	return len(ol.slots)
}

// CollectionIndex returns the collection a pointer slot refers to.
func (ol *ObjectList) CollectionIndex(slot int) int {
	return ol.slots[slot]
}

// Area returns the records reachable through a pointer slot.
// The returned slice aliases the model.
func (ol *ObjectList) Area(slot int) []Record {
	return ol.collections[ol.slots[slot]]
}

// Collection returns the records of collection i.
// The returned slice aliases the model.
func (ol *ObjectList) Collection(i int) []Record {
	return ol.collections[i]
}

// Header returns the 8-byte header of collection i.
func (ol *ObjectList) Header(i int) [HeaderSize]byte {
	return ol.headers[i]
}

// AreaMapID returns the map identifier stored in the header of collection i.
func (ol *ObjectList) AreaMapID(i int) uint8 {
	return ol.headers[i][1]
}

// Chests returns the chest registry.
func (ol *ObjectList) Chests() []ChestEntry {
	return ol.chests
}

// SlotsOf returns how many pointer slots refer to collection i.
func (ol *ObjectList) SlotsOf(i int) int {
	n := 0
	for _, c := range ol.slots {
		if c == i {
			n++
		}
	}
	return n
}

// record returns a pointer to a record after checking both indices.
func (ol *ObjectList) record(collection, index int) (*Record, error) {
	if collection < 0 || collection >= len(ol.collections) {
		return nil, fmt.Errorf("%w: collection %#02x of %d", ErrOutOfRange, collection, len(ol.collections))
	}
	records := ol.collections[collection]
	if index < 0 || index >= len(records) {
		return nil, fmt.Errorf("%w: record %#02x of collection %#02x (%d records)", ErrOutOfRange, index, collection, len(records))
	}
	return &records[index], nil
}

// slotCollection resolves a pointer slot after checking it.
func (ol *ObjectList) slotCollection(slot int) (int, error) {
	if slot < 0 || slot >= len(ol.slots) {
		return 0, fmt.Errorf("%w: slot %#02x of %d", ErrOutOfRange, slot, len(ol.slots))
	}
	return ol.slots[slot], nil
}
