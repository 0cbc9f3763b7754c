package mapobjects

import (
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/ffmq-rando/pkg/treasure"
)

// Container sprites.
const (
	ChestSprite = 0x24
	BoxSprite   = 0x26
)

// FindChest returns the first registry entry holding reward value.
func (ol *ObjectList) FindChest(value byte) (ChestEntry, bool) {
	for _, c := range ol.chests {
		if c.Value == value {
			return c, true
		}
	}
	return ChestEntry{}, false
}

// UpdateChests synchronizes chest records with the item placement and
// returns the number of records restyled.
//
// Chests and boxes of the placement are processed by object id; the matching
// record gets the container's sprite and a cleared gameflag so it shows up
// unopened. Placement entries without a matching record are ignored.
func (ol *ObjectList) UpdateChests(placement *treasure.Placement) (int, error) {
	if err := ol.registerElixirChest(); err != nil {
		return 0, err
	}

	var locations []treasure.Location
	if placement != nil {
		for _, loc := range placement.Locations {
			if loc.Kind.ChestLike() {
				locations = append(locations, loc)
			}
		}
	}
	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].ObjectID < locations[j].ObjectID
	})

	updated := 0
	for _, loc := range locations {
		entry, ok := ol.FindChest(loc.ObjectID)
		if !ok {
			continue
		}
		rec := &ol.collections[entry.Collection][entry.Index]
		rec.Sprite = BoxSprite
		if loc.Kind == treasure.Chest {
			rec.Sprite = ChestSprite
		}
		rec.Gameflag = 0x00
		updated++
	}

	if err := ol.copyForestTreasures(); err != nil {
		return updated, err
	}

	ol.log.Info("chests updated",
		zap.Int("registered", len(ol.chests)),
		zap.Int("updated", updated),
	)
	return updated, nil
}

func (ol *ObjectList) registerElixirChest() error {
	s := ol.specials
	if s.ElixirSlot < 0 {
		return nil
	}
	c, err := ol.slotCollection(s.ElixirSlot)
	if err != nil {
		return fmt.Errorf("elixir chest: %w", err)
	}
	rec, err := ol.record(c, s.ElixirRecord)
	if err != nil {
		return fmt.Errorf("elixir chest: %w", err)
	}
	rec.Type = Chest
	rec.Value = s.ElixirValue
	rec.Gameflag = s.ElixirGameflag
	entry := ChestEntry{Value: s.ElixirValue, Collection: c, Index: s.ElixirRecord}
	if !slices.Contains(ol.chests, entry) {
		ol.chests = append(ol.chests, entry)
	}
	return nil
}

func (ol *ObjectList) copyForestTreasures() error {
	s := ol.specials
	if s.ForestSource < 0 || s.ForestTarget < 0 {
		return nil
	}
	for i := s.ForestFirst; i < s.ForestFirst+s.ForestCount; i++ {
		src, err := ol.record(s.ForestSource, i)
		if err != nil {
			return fmt.Errorf("forest copy: %w", err)
		}
		dst, err := ol.record(s.ForestTarget, i)
		if err != nil {
			return fmt.Errorf("forest copy: %w", err)
		}
		dst.Overwrite(src.Bytes())
	}
	return nil
}
