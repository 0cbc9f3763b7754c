package mapobjects

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Point is a tile coordinate on a map.
type Point struct {
	X, Y byte
}

// UnmarshalYAML reads a point written as a two element sequence.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var xy []uint8
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point needs 2 coordinates, got %d", node.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// MarshalYAML writes the point as a flow sequence.
func (p Point) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []byte{p.X, p.Y} {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)})
	}
	return node, nil
}

// MapRule holds the placement restrictions of one map.
type MapRule struct {
	ExcludedCoordinates []Point `yaml:"excluded_coordinates,omitempty"`
	ExcludedTiles       []byte  `yaml:"excluded_tiles,omitempty"`
	// Hooks enables the exclusion cross around hook objects.
	Hooks bool `yaml:"hooks,omitempty"`
}

// excludes reports whether p is in the rule's coordinate list.
func (r MapRule) excludes(p Point) bool {
	for _, c := range r.ExcludedCoordinates {
		if c == p {
			return true
		}
	}
	return false
}

// excludesTile reports whether tile is in the rule's tile list.
func (r MapRule) excludesTile(tile byte) bool {
	for _, t := range r.ExcludedTiles {
		if t == tile {
			return true
		}
	}
	return false
}

// Rules are map rules keyed by map id.
type Rules map[uint8]MapRule

// RuleSet are map rules keyed by map name.
type RuleSet map[string]MapRule

// Resolve converts a RuleSet to Rules using lookup to find map ids.
// Names lookup does not know are returned sorted.
func (rs RuleSet) Resolve(lookup func(name string) (uint8, bool)) (Rules, []string) {
	rules := make(Rules, len(rs))
	var missing []string
	for name, rule := range rs {
		id, ok := lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		rules[id] = rule
	}
	sort.Strings(missing)
	return rules, missing
}

// Merge returns a copy of rs with the entries of other replacing its own.
func (rs RuleSet) Merge(other RuleSet) RuleSet {
	out := make(RuleSet, len(rs)+len(other))
	for k, v := range rs {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LoadRuleSet reads a RuleSet from a YAML file.
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing rule set %s: %w", path, err)
	}
	return rs, nil
}

// Map names used by the default rule set.
const (
	MapLevelAliveForest  = "LevelAliveForest"
	MapMineExterior      = "MineExterior"
	MapVolcanoBase       = "VolcanoBase"
	MapMountGale         = "MountGale"
	MapMacShipDeck       = "MacShipDeck"
	MapMacShipInterior   = "MacShipInterior"
	MapIcePyramidA       = "IcePyramidA"
	MapLavaDomeExterior  = "LavaDomeExterior"
	MapLavaDomeInteriorA = "LavaDomeInteriorA"
	MapLavaDomeInteriorB = "LavaDomeInteriorB"
	MapPazuzuTowerA      = "PazuzuTowerA"
	MapPazuzuTowerB      = "PazuzuTowerB"
	MapFocusTowerBase    = "FocusTowerBase"
	MapDoomCastleIce     = "DoomCastleIce"
	MapDoomCastleLava    = "DoomCastleLava"
	MapDoomCastleSky     = "DoomCastleSky"
	MapGiantTreeA        = "GiantTreeA"
	MapGiantTreeB        = "GiantTreeB"
)

func pts(xy ...byte) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{xy[i], xy[i+1]})
	}
	return out
}

// DefaultRuleSet returns the restrictions of the stock game maps: tiles
// where an enemy would block a door, a switch or a hook line.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		MapLevelAliveForest: {ExcludedCoordinates: pts(0x34, 0x10, 0x34, 0x0E)},
		MapMineExterior:     {ExcludedCoordinates: pts(0x0B, 0x26, 0x23, 0x2A, 0x21, 0x0F, 0x3B, 0x30)},
		MapVolcanoBase:      {ExcludedCoordinates: pts(0x0F, 0x08)},
		MapMountGale: {
			ExcludedCoordinates: pts(0x18, 0x16, 0x17, 0x16, 0x1C, 0x14, 0x32, 0x23, 0x1F, 0x12, 0x27, 0x0F, 0x27, 0x0E, 0x22, 0x0A),
			Hooks:               true,
		},
		MapMacShipDeck: {ExcludedCoordinates: pts(0x13, 0x1D)},
		MapMacShipInterior: {
			ExcludedCoordinates: pts(0x12, 0x11, 0x08, 0x08, 0x11, 0x21),
			Hooks:               true,
		},
		MapIcePyramidA:      {ExcludedCoordinates: pts(0x21, 0x3D, 0x2A, 0x3C, 0x25, 0x34)},
		MapLavaDomeExterior: {ExcludedTiles: []byte{0x7E, 0xFE, 0x37, 0x41}},
		MapLavaDomeInteriorA: {
			ExcludedCoordinates: pts(
				0x35, 0x14, 0x33, 0x14, 0x36, 0x0A, 0x36, 0x08, 0x34, 0x08,
				0x32, 0x08, 0x29, 0x1E, 0x27, 0x1E, 0x29, 0x20, 0x29, 0x22,
				0x2B, 0x22, 0x29, 0x24, 0x2B, 0x24, 0x29, 0x26, 0x19, 0x36,
				0x03, 0x34, 0x05, 0x2C, 0x02, 0x23, 0x0E, 0x24, 0x28, 0x04,
			),
			ExcludedTiles: []byte{0x7E, 0xFE, 0x37, 0x41},
		},
		MapLavaDomeInteriorB: {
			ExcludedCoordinates: pts(
				0x04, 0x07, 0x0B, 0x12, 0x07, 0x14, 0x09, 0x19, 0x13, 0x14,
				0x11, 0x14, 0x39, 0x05, 0x25, 0x0C, 0x23, 0x12, 0x25, 0x12,
				0x2A, 0x0C, 0x2C, 0x0C, 0x38, 0x11, 0x36, 0x11, 0x2E, 0x16,
				0x30, 0x16,
			),
			ExcludedTiles: []byte{0x49, 0x4B, 0x7D},
		},
		MapPazuzuTowerA: {
			ExcludedCoordinates: pts(
				0x14, 0x0A, 0x10, 0x12, 0x10, 0x13, 0x0F, 0x16, 0x0F, 0x17,
				0x12, 0x31, 0x14, 0x31, 0x2C, 0x33, 0x2A, 0x33, 0x32, 0x33,
				0x34, 0x33,
			),
			Hooks: true,
		},
		MapPazuzuTowerB: {
			ExcludedCoordinates: pts(0x2D, 0x19, 0x10, 0x2D, 0x06, 0x2E, 0x07, 0x32),
			Hooks:               true,
		},
		MapFocusTowerBase: {
			ExcludedCoordinates: pts(
				0x2C, 0x1A, 0x25, 0x13, 0x1F, 0x13, 0x1E, 0x13, 0x1C, 0x1E,
				0x1B, 0x1E, 0x1A, 0x1E, 0x19, 0x1E, 0x18, 0x1E, 0x0D, 0x12,
				0x0E, 0x12, 0x0F, 0x12, 0x13, 0x13, 0x13, 0x15, 0x13, 0x17,
			),
			Hooks: true,
		},
		MapDoomCastleIce: {
			ExcludedCoordinates: pts(
				0x1C, 0x24, 0x20, 0x24, 0x1C, 0x20, 0x25, 0x1A, 0x24, 0x19,
				0x0F, 0x26, 0x1B, 0x0F, 0x1E, 0x16, 0x11, 0x1A, 0x0A, 0x17,
				0x0B, 0x16, 0x18, 0x0B, 0x07, 0x0B,
			),
			Hooks: true,
		},
		MapDoomCastleLava: {
			ExcludedCoordinates: pts(
				0x25, 0x1C, 0x25, 0x1F, 0x25, 0x21, 0x22, 0x17, 0x1B, 0x16,
				0x1A, 0x1F, 0x13, 0x1F, 0x11, 0x1F, 0x10, 0x09, 0x11, 0x09,
				0x0E, 0x09, 0x12, 0x11, 0x14, 0x18, 0x16, 0x18, 0x18, 0x0B,
				0x0B, 0x20, 0x0B, 0x22,
			),
			ExcludedTiles: []byte{0x57, 0x41},
			Hooks:         true,
		},
		MapDoomCastleSky: {
			ExcludedCoordinates: pts(0x19, 0x22, 0x17, 0x22),
			ExcludedTiles:       []byte{0x0F},
		},
		MapGiantTreeA: {ExcludedTiles: []byte{0x06, 0x16}, Hooks: true},
		MapGiantTreeB: {ExcludedTiles: []byte{0x06, 0x16}, Hooks: true},
	}
}
