package mapobjects

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ffmq-rando/pkg/rom"
	"github.com/Faultbox/ffmq-rando/pkg/rng"
)

// testArea is one collection of a synthetic table.
type testArea struct {
	mapID   byte
	records []Record
}

// rec builds a record with the fields most tests care about.
func rec(t ObjectType, value byte, x, y, layer byte) Record {
	return Record{Type: t, Value: value, X: x, Y: y, Layer: layer, Solid: true}
}

// buildROM lays out a pointer table at offset 0 followed by the areas.
// Records are encoded against their own raw bytes, so records built with
// DecodeRecord keep their passthrough bits.
// slots maps every pointer slot to an area; adjacent slots naming the same
// area share one offset. padding extra bytes follow the last sentinel.
func buildROM(t *testing.T, areas []testArea, slots []int, padding int) (*rom.Image, Layout) {
	t.Helper()

	layout := Layout{PointerTable: 0, SlotCount: len(slots), DataBase: 0}
	data := make([]byte, len(slots)*2)

	offsets := make([]int, len(areas))
	for i, a := range areas {
		offsets[i] = len(data)
		header := [HeaderSize]byte{0xA0 + byte(i), a.mapID, 0, 0, 0, 0, 0, byte(i)}
		data = append(data, header[:]...)
		for _, r := range a.records {
			raw := r.Bytes()
			data = append(data, raw[:]...)
		}
		data = append(data, Sentinel)
	}
	data = append(data, make([]byte, padding)...)

	for slot, a := range slots {
		binary.LittleEndian.PutUint16(data[slot*2:], uint16(offsets[a]))
	}
	return rom.New(data), layout
}

// loadTest builds a ROM and loads it with every special case turned off.
func loadTest(t *testing.T, areas []testArea, slots []int) (*ObjectList, *rom.Image) {
	t.Helper()
	img, layout := buildROM(t, areas, slots, 0)
	ol, err := Load(img, layout)
	require.NoError(t, err)
	ol.SetSpecials(NoSpecials())
	return ol, img
}

// scriptedRandom replays fixed values, then falls back to a seeded stream.
// Scripted values are clamped into the requested range.
type scriptedRandom struct {
	values []int
	calls  int
	next   rng.Random
}

func newScripted(values ...int) *scriptedRandom {
	return &scriptedRandom{values: values, next: rng.New(1)}
}

func (s *scriptedRandom) Between(lo, hi int) int {
	s.calls++
	if len(s.values) == 0 {
		return s.next.Between(lo, hi)
	}
	v := s.values[0]
	s.values = s.values[1:]
	return min(max(v, lo), hi)
}

// gridMap is a MapService over one in-memory map. Tiles not set are
// walkable on defaultLayer.
type gridMap struct {
	defaultLayer byte
	layers       map[Point]byte
	scripts      map[Point]bool
	tiles        map[Point]byte
	queries      int
}

func newGridMap(defaultLayer byte) *gridMap {
	return &gridMap{
		defaultLayer: defaultLayer,
		layers:       make(map[Point]byte),
		scripts:      make(map[Point]bool),
		tiles:        make(map[Point]byte),
	}
}

func (g *gridMap) WalkabilityClass(_ uint8, x, y int) uint8 {
	g.queries++
	if l, ok := g.layers[Point{byte(x), byte(y)}]; ok {
		return l
	}
	return g.defaultLayer
}

func (g *gridMap) IsScriptTile(_ uint8, x, y int) bool {
	return g.scripts[Point{byte(x), byte(y)}]
}

func (g *gridMap) TileValue(_ uint8, x, y int) uint8 {
	return g.tiles[Point{byte(x), byte(y)}]
}
