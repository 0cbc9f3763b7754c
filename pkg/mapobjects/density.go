package mapobjects

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/ffmq-rando/pkg/rng"
)

// ErrInvalidDensity is returned for a density outside 0..100.
var ErrInvalidDensity = errors.New("enemy density must be between 0 and 100")

// EnemiesDensity is the share of battle encounters kept on each map.
type EnemiesDensity int

// Density settings.
const (
	DensityAll EnemiesDensity = iota
	DensityThreeQuarter
	DensityHalf
	DensityQuarter
	DensityNone
)

var densityNames = []string{"100%", "75%", "50%", "25%", "0%"}

// Percent returns the share of encounters kept.
func (d EnemiesDensity) Percent() int {
	switch d {
	case DensityThreeQuarter:
		return 75
	case DensityHalf:
		return 50
	case DensityQuarter:
		return 25
	case DensityNone:
		return 0
	default:
		return 100
	}
}

// String returns the density as a percentage.
func (d EnemiesDensity) String() string {
	if d < 0 || int(d) >= len(densityNames) {
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
	return densityNames[d]
}

// ParseEnemiesDensity accepts "75%", "75" or a setting name such as "half".
func ParseEnemiesDensity(s string) (EnemiesDensity, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "all", "full":
		return DensityAll, nil
	case "threequarter", "three_quarter":
		return DensityThreeQuarter, nil
	case "half":
		return DensityHalf, nil
	case "quarter":
		return DensityQuarter, nil
	case "none":
		return DensityNone, nil
	}
	v = strings.TrimSuffix(v, "%")
	for i, name := range densityNames {
		if strings.TrimSuffix(name, "%") == v {
			return EnemiesDensity(i), nil
		}
	}
	return DensityAll, fmt.Errorf("unknown enemy density %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (d EnemiesDensity) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *EnemiesDensity) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseEnemiesDensity(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ApplyDensity disables (100-density)% of the battle records of every
// collection, rounding down, and returns the number of records disabled.
// Disabled records keep their slot in the table.
func (ol *ObjectList) ApplyDensity(density int, random rng.Random) (int, error) {
	if density < 0 || density > 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDensity, density)
	}
	if density == 100 {
		return 0, nil
	}

	disabled := 0
	for i := range ol.collections {
		enemies := ol.battleRecords(i)
		remove := (100 - density) * len(enemies) / 100

		for j := 0; j < remove; j++ {
			rng.TakeFrom(random, &enemies).Gameflag = DisabledFlag
		}
		disabled += remove

		if remove > 0 {
			ol.log.Debug("enemies disabled",
				zap.Int("collection", i),
				zap.Int("battles", len(enemies)+remove),
				zap.Int("disabled", remove),
			)
		}
	}

	ol.log.Info("enemy density applied",
		zap.Int("density", density),
		zap.Int("disabled", disabled),
	)
	return disabled, nil
}

// battleRecords returns pointers to the battle records of collection i in
// table order.
func (ol *ObjectList) battleRecords(i int) []*Record {
	var enemies []*Record
	records := ol.collections[i]
	for j := range records {
		if records[j].Type == Battle {
			enemies = append(enemies, &records[j])
		}
	}
	return enemies
}
