package mapobjects

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/ffmq-rando/pkg/rng"
)

// Hook exclusion parameters.
const (
	HookSprite = 0x28
	HookReach  = 5
)

// DefaultMaxAttempts bounds the random draws spent on one enemy before the
// engine falls back to enumerating every valid tile.
const DefaultMaxAttempts = 4096

// MapService answers tile queries about a map.
type MapService interface {
	WalkabilityClass(mapID uint8, x, y int) uint8
	IsScriptTile(mapID uint8, x, y int) bool
	TileValue(mapID uint8, x, y int) uint8
}

// PlacementOptions tune ShuffleEnemies.
type PlacementOptions struct {
	MaxAttempts int
}

// PlacementStats summarize a ShuffleEnemies run.
type PlacementStats struct {
	Areas    int // areas with at least one battle
	Placed   int // enemies placed by random draws
	Fallback int // enemies placed from the enumerated candidates
	Unplaced int // enemies left where they were
	Disabled int // enemies disabled because their own tile was taken
}

// Bounds is an inclusive rectangle of tiles.
type Bounds struct {
	MinX, MaxX, MinY, MaxY int
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Point) bool {
	return int(p.X) >= b.MinX && int(p.X) <= b.MaxX && int(p.Y) >= b.MinY && int(p.Y) <= b.MaxY
}

// battleBounds is the rectangle spanned by the enemies grown by one tile.
func battleBounds(enemies []*Record) Bounds {
	b := Bounds{MinX: MaxCoord, MinY: MaxCoord}
	for _, e := range enemies {
		b.MinX = min(b.MinX, int(e.X))
		b.MaxX = max(b.MaxX, int(e.X))
		b.MinY = min(b.MinY, int(e.Y))
		b.MaxY = max(b.MaxY, int(e.Y))
	}
	b.MinX = max(0, b.MinX-1)
	b.MinY = max(0, b.MinY-1)
	b.MaxX = min(MaxCoord, b.MaxX+1)
	b.MaxY = min(MaxCoord, b.MaxY+1)
	return b
}

// areaPlacement is the state of one area while its enemies are moved.
type areaPlacement struct {
	mapID    uint8
	maps     MapService
	rule     MapRule
	bounds   Bounds
	layers   []byte
	occupied map[Point]bool
}

// accept reports whether p is a free, walkable, non-script tile of one of
// the allowed layers, and returns its walkability class.
func (a *areaPlacement) accept(p Point) (byte, bool) {
	if a.occupied[p] || a.rule.excludes(p) {
		return 0, false
	}
	x, y := int(p.X), int(p.Y)
	layer := a.maps.WalkabilityClass(a.mapID, x, y)
	if !slices.Contains(a.layers, layer) {
		return 0, false
	}
	if a.maps.IsScriptTile(a.mapID, x, y) {
		return 0, false
	}
	if a.rule.excludesTile(a.maps.TileValue(a.mapID, x, y)) {
		return 0, false
	}
	return layer, true
}

// candidates lists every acceptable tile in row order.
func (a *areaPlacement) candidates() []Point {
	var out []Point
	for y := a.bounds.MinY; y <= a.bounds.MaxY; y++ {
		for x := a.bounds.MinX; x <= a.bounds.MaxX; x++ {
			p := Point{byte(x), byte(y)}
			if _, ok := a.accept(p); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// excludeHooks blocks the cross of tiles a hook's chain can reach.
func (a *areaPlacement) excludeHooks(records []Record) {
	for i := range records {
		hook := &records[i]
		if hook.Sprite != HookSprite {
			continue
		}
		hx, hy := int(hook.X), int(hook.Y)
		for x := max(hx-HookReach, a.bounds.MinX); x <= min(hx+HookReach, a.bounds.MaxX); x++ {
			a.occupied[Point{byte(x), hook.Y}] = true
		}
		for y := max(hy-HookReach, a.bounds.MinY); y <= min(hy+HookReach, a.bounds.MaxY); y++ {
			a.occupied[Point{hook.X, byte(y)}] = true
		}
	}
}

// ShuffleEnemies moves every battle record to a random tile of its area.
//
// Candidates are drawn inside the rectangle spanned by the area's enemies and
// must be free, outside the map's excluded coordinates and tiles, not a
// script tile, and of a walkability class already used by an enemy of the
// area. An enemy takes the class of the tile it lands on. After
// opts.MaxAttempts failed draws the engine picks among all valid tiles, and
// leaves the enemy in place when there are none.
func (ol *ObjectList) ShuffleEnemies(maps MapService, rules Rules, random rng.Random, opts PlacementOptions) (PlacementStats, error) {
	var stats PlacementStats
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	wormParty := -1
	if ol.specials.WormPartySlot >= 0 {
		c, err := ol.slotCollection(ol.specials.WormPartySlot)
		if err != nil {
			return stats, err
		}
		wormParty = c
	}

	for i, records := range ol.collections {
		enemies := ol.battleRecords(i)
		if len(enemies) == 0 {
			continue
		}
		stats.Areas++

		a := &areaPlacement{
			mapID:    ol.AreaMapID(i),
			maps:     maps,
			bounds:   battleBounds(enemies),
			occupied: make(map[Point]bool),
		}
		a.rule = rules[a.mapID]
		for _, e := range enemies {
			if !slices.Contains(a.layers, e.Layer) {
				a.layers = append(a.layers, e.Layer)
			}
		}
		for j := range records {
			if records[j].Type != Battle {
				a.occupied[Point{records[j].X, records[j].Y}] = true
			}
		}
		if a.rule.Hooks {
			a.excludeHooks(records)
		}

		if i == wormParty && random.Between(1, 20) == 10 {
			a.layers = []byte{ol.specials.WormPartyLayer}
			ol.log.Info("worm party", zap.Int("collection", i))
		}

		for _, e := range enemies {
			ol.placeEnemy(a, e, random, opts.MaxAttempts, &stats, i)
		}

		ol.log.Debug("enemies shuffled",
			zap.Int("collection", i),
			zap.Uint8("map", a.mapID),
			zap.Int("enemies", len(enemies)),
			zap.Uint8s("layers", a.layers),
		)
	}

	ol.log.Info("enemy positions shuffled",
		zap.Int("areas", stats.Areas),
		zap.Int("placed", stats.Placed),
		zap.Int("fallback", stats.Fallback),
		zap.Int("unplaced", stats.Unplaced),
		zap.Int("disabled", stats.Disabled),
	)
	return stats, nil
}

func (ol *ObjectList) placeEnemy(a *areaPlacement, e *Record, random rng.Random, attempts int, stats *PlacementStats, collection int) {
	set := func(p Point, layer byte) {
		a.occupied[p] = true
		e.X, e.Y, e.Layer = p.X, p.Y, layer
	}

	for n := 0; n < attempts; n++ {
		p := Point{
			X: byte(random.Between(a.bounds.MinX, a.bounds.MaxX)),
			Y: byte(random.Between(a.bounds.MinY, a.bounds.MaxY)),
		}
		if layer, ok := a.accept(p); ok {
			set(p, layer)
			stats.Placed++
			return
		}
	}

	if cands := a.candidates(); len(cands) > 0 {
		p := cands[random.Between(0, len(cands)-1)]
		layer, _ := a.accept(p)
		set(p, layer)
		stats.Fallback++
		return
	}

	// An earlier enemy may have moved onto this one's tile.
	if orig := (Point{e.X, e.Y}); a.occupied[orig] {
		e.Gameflag = DisabledFlag
		stats.Disabled++
		ol.log.Warn("no valid tile for enemy and its own tile is taken, disabling it",
			zap.Int("collection", collection),
			zap.Uint8("map", a.mapID),
			zap.Uint8("x", e.X),
			zap.Uint8("y", e.Y),
		)
		return
	}

	a.occupied[Point{e.X, e.Y}] = true
	stats.Unplaced++
	ol.log.Warn("no valid tile for enemy, keeping original position",
		zap.Int("collection", collection),
		zap.Uint8("map", a.mapID),
		zap.Uint8("x", e.X),
		zap.Uint8("y", e.Y),
	)
}
