// Package mapobjects reads, randomizes and rewrites the table of interactive
// map objects (talk triggers, battle encounters, treasure chests) stored in
// the ROM image.
package mapobjects

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Binary layout sizes and marker values.
const (
	RecordSize = 7
	HeaderSize = 8

	// Sentinel terminates a collection in the serialized form.
	Sentinel byte = 0xFF
	// DisabledFlag marks a record that stays in the table but is inert in game.
	DisabledFlag byte = 0xFE

	// MaxCoord is the largest value a 6-bit coordinate can hold.
	MaxCoord = 0x3F
)

// Bit masks for the packed record bytes.
const (
	coordMask       = 0b0011_1111
	highPairShift   = 6
	behaviorMask    = 0b0000_1111
	paletteShift    = 4
	layerMask       = 0b0000_0111
	typeMask        = 0b0001_1000
	typeShift       = 3
	notSolidBit     = 0b0010_0000
	pushableBit     = 0b0100_0000
	passthroughBit  = 0b1000_0000
	spriteMask      = 0b0111_1111
	twoBitFieldMask = 0b0000_0011
)

// ObjectType is the kind of interaction a map object triggers.
type ObjectType byte

// Object type constants.
const (
	Talk   ObjectType = 0x00
	Battle ObjectType = 0x01
	Chest  ObjectType = 0x02
)

// String returns a human-readable object type name.
func (t ObjectType) String() string {
	switch t {
	case Talk:
		return "Talk"
	case Battle:
		return "Battle"
	case Chest:
		return "Chest"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(t))
	}
}

// Record is one decoded map object.
//
// The record remembers the raw bytes it was decoded from so that the two
// unmodeled high bits of bytes 5 and 6 survive re-encoding.
type Record struct {
	Type         ObjectType
	Gameflag     byte
	Value        byte // chest reward id or battle group id, depending on Type
	Solid        bool
	Pushable     bool
	X            byte
	Y            byte
	Sprite       byte
	UnknownIndex byte
	Orientation  byte
	Palette      byte
	Behavior     byte
	Layer        byte

	raw [RecordSize]byte
}

// DecodeRecord unpacks a raw record.
func DecodeRecord(raw [RecordSize]byte) Record {
	return Record{
		Gameflag:     raw[0],
		Value:        raw[1],
		Y:            raw[2] & coordMask,
		UnknownIndex: raw[2] >> highPairShift,
		X:            raw[3] & coordMask,
		Orientation:  raw[3] >> highPairShift,
		Behavior:     raw[4] & behaviorMask,
		Palette:      raw[4] >> paletteShift,
		Layer:        raw[5] & layerMask,
		Type:         ObjectType((raw[5] & typeMask) >> typeShift),
		Solid:        raw[5]&notSolidBit == 0,
		Pushable:     raw[5]&pushableBit != 0,
		Sprite:       raw[6] & spriteMask,
		raw:          raw,
	}
}

// EncodeRecord packs r, taking the passthrough bits from prev.
// Fields wider than their slot are truncated to the slot width.
func EncodeRecord(r Record, prev [RecordSize]byte) [RecordSize]byte {
	var out [RecordSize]byte
	out[0] = r.Gameflag
	out[1] = r.Value
	out[2] = (r.UnknownIndex&twoBitFieldMask)<<highPairShift | r.Y&coordMask
	out[3] = (r.Orientation&twoBitFieldMask)<<highPairShift | r.X&coordMask
	out[4] = (r.Palette&behaviorMask)<<paletteShift | r.Behavior&behaviorMask

	b5 := (byte(r.Type)<<typeShift)&typeMask | r.Layer&layerMask
	if !r.Solid {
		b5 |= notSolidBit
	}
	if r.Pushable {
		b5 |= pushableBit
	}
	out[5] = b5 | prev[5]&passthroughBit
	out[6] = r.Sprite&spriteMask | prev[6]&passthroughBit
	return out
}

// Bytes encodes the record against the raw bytes it was last loaded from.
func (r *Record) Bytes() [RecordSize]byte {
	return EncodeRecord(*r, r.raw)
}

// Raw returns the bytes the record was last decoded from.
func (r *Record) Raw() [RecordSize]byte {
	return r.raw
}

// Overwrite replaces the record with raw bytes and re-decodes every field.
func (r *Record) Overwrite(raw [RecordSize]byte) {
	*r = DecodeRecord(raw)
}

// IsNullEntry reports whether the record is a collection terminator.
func (r *Record) IsNullEntry() bool {
	return r.Gameflag == Sentinel
}

// Disabled reports whether the record carries the disabled gameflag.
func (r *Record) Disabled() bool {
	return r.Gameflag == DisabledFlag
}

// Hex returns the encoded record as uppercase hex.
func (r *Record) Hex() string {
	b := r.Bytes()
	return strings.ToUpper(hex.EncodeToString(b[:]))
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return fmt.Sprintf("%s flag=%02X value=%02X pos=(%d,%d) layer=%d sprite=%02X",
		r.Type, r.Gameflag, r.Value, r.X, r.Y, r.Layer, r.Sprite)
}
