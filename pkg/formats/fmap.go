// Package formats provides parsers for the map data files used by the
// randomizer.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// FMAP format errors.
var (
	ErrInvalidFMAPMagic       = errors.New("invalid FMAP magic: expected 'FMAP'")
	ErrUnsupportedFMAPVersion = errors.New("unsupported FMAP version")
	ErrTruncatedFMAPData      = errors.New("truncated FMAP data")
)

// FMAPVersion represents the FMAP file version.
type FMAPVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v FMAPVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Cell flags.
const (
	CellScript uint8 = 1 << 0 // Tile triggers a map script
)

// Walkability classes with a fixed meaning. Other values are map specific
// layers.
const (
	LayerBlocked uint8 = 0xFF
)

// TileCell is a single cell of the tile grid.
type TileCell struct {
	Layer uint8 // walkability class
	Tile  uint8 // raw tile value
	Flags uint8
}

// IsScript reports whether the cell triggers a map script.
func (c TileCell) IsScript() bool {
	return c.Flags&CellScript != 0
}

// TileMap represents a parsed FMAP file.
type TileMap struct {
	Version FMAPVersion
	ID      uint8
	Name    string
	Width   uint16
	Height  uint16
	Cells   []TileCell
}

// Cell returns the cell at the given coordinates.
// Returns nil if coordinates are out of bounds.
func (m *TileMap) Cell(x, y int) *TileCell {
	if x < 0 || y < 0 || x >= int(m.Width) || y >= int(m.Height) {
		return nil
	}
	return &m.Cells[y*int(m.Width)+x]
}

// ParseTileMap parses an FMAP file from raw bytes.
func ParseTileMap(data []byte) (*TileMap, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedFMAPData
	}

	if string(data[0:4]) != "FMAP" {
		return nil, ErrInvalidFMAPMagic
	}

	// Version is stored as [minor, major]
	version := FMAPVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFMAPVersion, version)
	}

	m := &TileMap{
		Version: version,
		ID:      data[6],
	}

	nameLen := int(data[7])
	r := bytes.NewReader(data[8:])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: reading name", ErrTruncatedFMAPData)
	}
	m.Name = string(name)

	if err := binary.Read(r, binary.LittleEndian, &m.Width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedFMAPData)
	}
	if err := binary.Read(r, binary.LittleEndian, &m.Height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedFMAPData)
	}

	if m.Width == 0 || m.Height == 0 || m.Width > 256 || m.Height > 256 {
		return nil, fmt.Errorf("invalid FMAP dimensions: %dx%d", m.Width, m.Height)
	}

	cellCount := int(m.Width) * int(m.Height)
	raw := make([]byte, cellCount*3)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: reading %d cells", ErrTruncatedFMAPData, cellCount)
	}

	m.Cells = make([]TileCell, cellCount)
	for i := range m.Cells {
		m.Cells[i] = TileCell{
			Layer: raw[i*3],
			Tile:  raw[i*3+1],
			Flags: raw[i*3+2],
		}
	}

	return m, nil
}

// ParseTileMapFile parses an FMAP file from disk.
func ParseTileMapFile(path string) (*TileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading FMAP file: %w", err)
	}
	return ParseTileMap(data)
}

// Encode serializes the map in FMAP 1.0 format.
func (m *TileMap) Encode() ([]byte, error) {
	if len(m.Name) > 0xFF {
		return nil, fmt.Errorf("map name too long: %d bytes", len(m.Name))
	}
	if len(m.Cells) != int(m.Width)*int(m.Height) {
		return nil, fmt.Errorf("cell count %d does not match %dx%d", len(m.Cells), m.Width, m.Height)
	}

	buf := new(bytes.Buffer)
	buf.WriteString("FMAP")
	buf.WriteByte(0) // minor
	buf.WriteByte(1) // major
	buf.WriteByte(m.ID)
	buf.WriteByte(byte(len(m.Name)))
	buf.WriteString(m.Name)
	binary.Write(buf, binary.LittleEndian, m.Width)
	binary.Write(buf, binary.LittleEndian, m.Height)
	for _, c := range m.Cells {
		buf.Write([]byte{c.Layer, c.Tile, c.Flags})
	}
	return buf.Bytes(), nil
}

// CountByLayer returns the count of cells for each walkability class.
func (m *TileMap) CountByLayer() map[uint8]int {
	counts := make(map[uint8]int)
	for _, cell := range m.Cells {
		counts[cell.Layer]++
	}
	return counts
}
