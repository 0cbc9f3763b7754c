package mapobjects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ffmq-rando/pkg/rng"
)

const testMapID = 0x2A

func placementArea() testArea {
	return testArea{mapID: testMapID, records: []Record{
		rec(Talk, 0x01, 10, 10, 1),
		rec(Battle, 0x40, 8, 8, 1),
		rec(Battle, 0x41, 14, 9, 1),
		rec(Chest, 0x02, 12, 12, 1),
		rec(Battle, 0x42, 11, 15, 2),
		rec(Battle, 0x43, 9, 13, 1),
	}}
}

func TestBattleBounds(t *testing.T) {
	enemies := []*Record{
		{X: 0, Y: 5},
		{X: 7, Y: 2},
		{X: 3, Y: MaxCoord},
	}
	b := battleBounds(enemies)
	assert.Equal(t, Bounds{MinX: 0, MaxX: 8, MinY: 1, MaxY: MaxCoord}, b)

	assert.True(t, b.Contains(Point{8, 1}))
	assert.False(t, b.Contains(Point{9, 1}))
	assert.False(t, b.Contains(Point{0, 0}))
}

func TestShuffleEnemies_Containment(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		ol, _ := loadTest(t, []testArea{placementArea()}, []int{0})
		grid := newGridMap(1)
		// Give the lower half of the rectangle the other enemy layer.
		for x := 0; x <= MaxCoord; x++ {
			for y := 12; y <= 16; y++ {
				grid.layers[Point{byte(x), byte(y)}] = 2
			}
		}
		grid.layers[Point{9, 9}] = 5 // never used by an enemy here

		original := battleBounds(ol.battleRecords(0))
		stats, err := ol.ShuffleEnemies(grid, Rules{}, rng.New(seed), PlacementOptions{})
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Placed)
		assert.Equal(t, 1, stats.Areas)

		occupied := map[Point]bool{}
		for _, r := range ol.Collection(0) {
			p := Point{r.X, r.Y}
			if r.Type != Battle {
				occupied[p] = true
				continue
			}
			assert.True(t, original.Contains(p), "seed %d: %v outside %+v", seed, p, original)
			assert.False(t, occupied[p], "seed %d: %v collides", seed, p)
			occupied[p] = true
			assert.Equal(t, grid.WalkabilityClass(testMapID, int(r.X), int(r.Y)), r.Layer)
			assert.Contains(t, []byte{1, 2}, r.Layer)
		}
	}
}

func TestShuffleEnemies_RespectsRules(t *testing.T) {
	grid := newGridMap(1)
	grid.scripts[Point{9, 9}] = true
	grid.tiles[Point{10, 9}] = 0x7E

	rules := Rules{testMapID: {
		ExcludedCoordinates: []Point{{11, 9}},
		ExcludedTiles:       []byte{0x7E},
	}}

	area := testArea{mapID: testMapID, records: []Record{
		rec(Battle, 0, 10, 10, 1),
	}}
	ol, _ := loadTest(t, []testArea{area}, []int{0})

	// Bounds are 9..11 x 9..11. Offer the forbidden tiles first.
	random := newScripted(9, 9, 10, 9, 11, 9, 10, 10, 11, 11)
	stats, err := ol.ShuffleEnemies(grid, rules, random, PlacementOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Placed)

	r := ol.Collection(0)[0]
	assert.Equal(t, Point{10, 10}, Point{r.X, r.Y})
	assert.Equal(t, 8, random.calls)
}

func TestShuffleEnemies_HookExclusion(t *testing.T) {
	area := testArea{mapID: testMapID, records: []Record{
		rec(Battle, 0, 2, 2, 1),
		rec(Battle, 1, 20, 20, 1),
		rec(Talk, 2, 10, 10, 1),
		rec(Battle, 3, 4, 18, 1),
	}}
	area.records[2].Sprite = HookSprite

	for seed := int64(1); seed <= 10; seed++ {
		ol, _ := loadTest(t, []testArea{area}, []int{0})
		rules := Rules{testMapID: {Hooks: true}}

		_, err := ol.ShuffleEnemies(newGridMap(1), rules, rng.New(seed), PlacementOptions{})
		require.NoError(t, err)

		for _, r := range ol.Collection(0) {
			if r.Type != Battle {
				continue
			}
			onRow := r.Y == 10 && r.X >= 5 && r.X <= 15
			onCol := r.X == 10 && r.Y >= 5 && r.Y <= 15
			assert.False(t, onRow || onCol, "seed %d: enemy at (%d,%d) on hook line", seed, r.X, r.Y)
		}
	}
}

func TestShuffleEnemies_HookIgnoredWithoutRule(t *testing.T) {
	area := testArea{mapID: testMapID, records: []Record{
		rec(Battle, 0, 12, 10, 1),
		rec(Talk, 1, 10, 10, 1),
	}}
	area.records[1].Sprite = HookSprite
	ol, _ := loadTest(t, []testArea{area}, []int{0})

	// (11,10) is on the hook line; without the rule it is accepted.
	random := newScripted(11, 10)
	_, err := ol.ShuffleEnemies(newGridMap(1), Rules{}, random, PlacementOptions{})
	require.NoError(t, err)

	r := ol.Collection(0)[0]
	assert.Equal(t, Point{11, 10}, Point{r.X, r.Y})
}

func TestAreaPlacement_ExcludeHooksClipsToBounds(t *testing.T) {
	a := &areaPlacement{
		bounds:   Bounds{MinX: 8, MaxX: 12, MinY: 0, MaxY: 3},
		occupied: map[Point]bool{},
	}
	hook := rec(Talk, 0, 10, 1, 0)
	hook.Sprite = HookSprite
	a.excludeHooks([]Record{hook})

	// Row: x 8..12 at y 1; column: y 0..3 at x 10.
	assert.Len(t, a.occupied, 5+4-1)
	assert.True(t, a.occupied[Point{8, 1}])
	assert.True(t, a.occupied[Point{12, 1}])
	assert.False(t, a.occupied[Point{7, 1}])
	assert.True(t, a.occupied[Point{10, 3}])
	assert.False(t, a.occupied[Point{10, 4}])
}

func TestShuffleEnemies_Unplaceable(t *testing.T) {
	ol, _ := loadTest(t, []testArea{placementArea()}, []int{0})
	before := append([]Record(nil), ol.Collection(0)...)

	grid := newGridMap(7) // no enemy uses layer 7
	stats, err := ol.ShuffleEnemies(grid, Rules{}, rng.New(1), PlacementOptions{MaxAttempts: 50})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Unplaced)
	assert.Zero(t, stats.Placed)
	assert.Equal(t, before, ol.Collection(0), "unplaceable enemies keep their position")
}

func TestShuffleEnemies_FallbackEnumeration(t *testing.T) {
	area := testArea{mapID: testMapID, records: []Record{
		rec(Battle, 0, 5, 5, 1),
	}}
	ol, _ := loadTest(t, []testArea{area}, []int{0})

	// Only (6,4) is walkable on layer 1.
	grid := newGridMap(0)
	grid.layers[Point{5, 5}] = 3
	grid.layers[Point{6, 4}] = 1

	random := newScripted(4, 4, 0)
	stats, err := ol.ShuffleEnemies(grid, Rules{}, random, PlacementOptions{MaxAttempts: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fallback)

	r := ol.Collection(0)[0]
	assert.Equal(t, Point{6, 4}, Point{r.X, r.Y})
	assert.Equal(t, byte(1), r.Layer)
}

func TestShuffleEnemies_TakenOriginalTileDisables(t *testing.T) {
	area := testArea{mapID: testMapID, records: []Record{
		rec(Battle, 0, 5, 5, 1),
		rec(Battle, 1, 6, 5, 1),
	}}
	ol, _ := loadTest(t, []testArea{area}, []int{0})

	// (6,5) is the only walkable tile. The first enemy moves onto it, which
	// leaves the second one nowhere to go, not even its own tile.
	grid := newGridMap(0)
	grid.layers[Point{6, 5}] = 1

	random := newScripted(4, 4, 0)
	stats, err := ol.ShuffleEnemies(grid, Rules{}, random, PlacementOptions{MaxAttempts: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Fallback)
	assert.Equal(t, 1, stats.Disabled)
	assert.Zero(t, stats.Unplaced)

	first, second := ol.Collection(0)[0], ol.Collection(0)[1]
	assert.Equal(t, Point{6, 5}, Point{first.X, first.Y})
	assert.False(t, first.Disabled())
	assert.True(t, second.Disabled())

	enabled := map[Point]int{}
	for _, r := range ol.Collection(0) {
		if !r.Disabled() {
			enabled[Point{r.X, r.Y}]++
		}
	}
	for p, n := range enabled {
		assert.Equal(t, 1, n, "%v shared by enabled enemies", p)
	}
}

func TestShuffleEnemies_WormParty(t *testing.T) {
	areas := []testArea{
		{mapID: 1, records: []Record{rec(Battle, 0, 5, 5, 1)}},
		{mapID: 2, records: []Record{rec(Battle, 0, 5, 5, 1), rec(Battle, 1, 6, 6, 1)}},
	}
	grid := newGridMap(1)
	for x := 0; x <= MaxCoord; x++ {
		grid.layers[Point{byte(x), 6}] = 2
	}

	tests := []struct {
		name      string
		roll      int
		wantLayer byte
	}{
		{"triggered", 10, 2},
		{"not triggered", 9, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ol, _ := loadTest(t, areas, []int{0, 1})
			specials := NoSpecials()
			specials.WormPartySlot = 1
			specials.WormPartyLayer = 2
			ol.SetSpecials(specials)

			// Area 0 takes two draws, then the roll, then area 1.
			random := newScripted(5, 5, tc.roll)
			_, err := ol.ShuffleEnemies(grid, Rules{}, random, PlacementOptions{})
			require.NoError(t, err)

			for _, r := range ol.Collection(1) {
				assert.Equal(t, tc.wantLayer, r.Layer)
			}
			assert.Equal(t, byte(1), ol.Collection(0)[0].Layer)
		})
	}
}

func TestShuffleEnemies_WormPartySlotOutOfRange(t *testing.T) {
	ol, _ := loadTest(t, []testArea{placementArea()}, []int{0})
	ol.SetSpecials(DefaultSpecials())

	_, err := ol.ShuffleEnemies(newGridMap(1), Rules{}, rng.New(1), PlacementOptions{})
	assert.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)
}

func TestShuffleEnemies_SkipsAreasWithoutBattles(t *testing.T) {
	areas := []testArea{
		{mapID: 1, records: []Record{rec(Talk, 0, 5, 5, 1)}},
		{mapID: 2},
	}
	ol, _ := loadTest(t, areas, []int{0, 1})

	grid := newGridMap(1)
	random := newScripted()
	stats, err := ol.ShuffleEnemies(grid, Rules{}, random, PlacementOptions{})
	require.NoError(t, err)
	assert.Zero(t, stats.Areas)
	assert.Zero(t, random.calls)
	assert.Zero(t, grid.queries)
}

func TestShuffleEnemies_Deterministic(t *testing.T) {
	run := func() []Record {
		ol, _ := loadTest(t, []testArea{placementArea(), placementArea()}, []int{0, 1})
		_, err := ol.ShuffleEnemies(newGridMap(1), Rules{}, rng.New(99), PlacementOptions{})
		require.NoError(t, err)
		return append(append([]Record(nil), ol.Collection(0)...), ol.Collection(1)...)
	}
	assert.Equal(t, run(), run())
}
