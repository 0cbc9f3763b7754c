package mapobjects

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// WriteAll serializes the model back into the ROM.
//
// Offsets are recomputed from the collections: the stream starts at the
// lowest area offset of the loaded table and every slot of a dedup group receives the offset of
// its shared collection. The new layout is validated before anything is
// written.
func (ol *ObjectList) WriteAll(rom ROM) error {
	start := ol.regionStart
	offsets := make([]int, len(ol.collections))
	end := start
	for i, records := range ol.collections {
		offsets[i] = end
		end += HeaderSize + len(records)*RecordSize + 1
	}

	if end > ol.regionEnd {
		return fmt.Errorf("%w: needs %#x bytes, region ends at %#x", ErrRegionOverflow, end, ol.regionEnd)
	}
	if end-1 > 0xFFFF {
		return fmt.Errorf("%w: offset %#x exceeds 16 bits", ErrRegionOverflow, end-1)
	}

	stream := make([]byte, 0, end-start)
	for i, records := range ol.collections {
		stream = append(stream, ol.headers[i][:]...)
		for j := range records {
			raw := records[j].Bytes()
			stream = append(stream, raw[:]...)
		}
		stream = append(stream, Sentinel)
	}

	table := make([]byte, len(ol.slots)*2)
	for slot, c := range ol.slots {
		binary.LittleEndian.PutUint16(table[slot*2:], uint16(offsets[c]))
	}

	if err := rom.Put(ol.layout.DataBase+start, stream); err != nil {
		return fmt.Errorf("writing object data: %w", err)
	}
	if err := rom.Put(ol.layout.PointerTable, table); err != nil {
		return fmt.Errorf("writing pointer table: %w", err)
	}

	for slot, c := range ol.slots {
		ol.pointers[slot] = uint16(offsets[c])
	}

	ol.log.Debug("object table written",
		zap.Int("collections", len(ol.collections)),
		zap.Int("slots", len(ol.slots)),
		zap.Int("bytes", end-start),
	)
	return nil
}

// Pointer returns the offset currently stored for a pointer slot.
func (ol *ObjectList) Pointer(slot int) uint16 {
	return ol.pointers[slot]
}
