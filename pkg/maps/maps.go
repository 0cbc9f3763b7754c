// Package maps answers tile queries over the set of game maps.
package maps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/ffmq-rando/pkg/formats"
)

// Values reported for tiles outside a map or on unknown maps.
const (
	offMapLayer = formats.LayerBlocked
	offMapTile  = 0xFF
)

// Set holds tile maps by map id.
type Set struct {
	byID   map[uint8]*formats.TileMap
	byName map[string]uint8
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		byID:   make(map[uint8]*formats.TileMap),
		byName: make(map[string]uint8),
	}
}

// Add registers m, replacing any map with the same id.
func (s *Set) Add(m *formats.TileMap) {
	if old, ok := s.byID[m.ID]; ok {
		delete(s.byName, old.Name)
	}
	s.byID[m.ID] = m
	if m.Name != "" {
		s.byName[m.Name] = m.ID
	}
}

// LoadDir loads every *.fmap file in dir.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading map directory: %w", err)
	}

	s := NewSet()
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fmap") {
			continue
		}
		m, err := formats.ParseTileMapFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", e.Name(), err)
		}
		if _, dup := s.byID[m.ID]; dup {
			return nil, fmt.Errorf("loading %s: duplicate map id %#02x", e.Name(), m.ID)
		}
		s.Add(m)
	}
	return s, nil
}

// Len returns the number of maps.
func (s *Set) Len() int {
	return len(s.byID)
}

// Get returns the map with the given id.
func (s *Set) Get(id uint8) (*formats.TileMap, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Lookup returns the id of the map called name.
func (s *Set) Lookup(name string) (uint8, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// IDs returns the map ids in ascending order.
func (s *Set) IDs() []uint8 {
	ids := make([]uint8, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Set) cell(mapID uint8, x, y int) *formats.TileCell {
	m, ok := s.byID[mapID]
	if !ok {
		return nil
	}
	return m.Cell(x, y)
}

// WalkabilityClass returns the walkability class of a tile.
func (s *Set) WalkabilityClass(mapID uint8, x, y int) uint8 {
	if c := s.cell(mapID, x, y); c != nil {
		return c.Layer
	}
	return offMapLayer
}

// IsScriptTile reports whether a tile triggers a map script. Tiles off the
// map count as script tiles so nothing is ever placed there.
func (s *Set) IsScriptTile(mapID uint8, x, y int) bool {
	if c := s.cell(mapID, x, y); c != nil {
		return c.IsScript()
	}
	return true
}

// TileValue returns the raw tile value at a tile.
func (s *Set) TileValue(mapID uint8, x, y int) uint8 {
	if c := s.cell(mapID, x, y); c != nil {
		return c.Tile
	}
	return offMapTile
}
