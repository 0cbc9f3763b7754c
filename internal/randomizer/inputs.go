package randomizer

import (
	"fmt"

	"github.com/Faultbox/ffmq-rando/internal/config"
	"github.com/Faultbox/ffmq-rando/pkg/mapobjects"
	"github.com/Faultbox/ffmq-rando/pkg/maps"
	"github.com/Faultbox/ffmq-rando/pkg/rom"
	"github.com/Faultbox/ffmq-rando/pkg/treasure"
)

// LoadInputs opens the ROM and the data files named by cfg.
func LoadInputs(cfg *config.Config) (Inputs, *rom.Image, error) {
	img, err := rom.Open(cfg.ROM.Input)
	if err != nil {
		return Inputs{}, nil, err
	}
	in := Inputs{ROM: img, Rules: mapobjects.DefaultRuleSet()}

	if cfg.Randomizer.ShuffleEnemiesPosition {
		in.Maps, err = maps.LoadDir(cfg.Data.MapsDir)
		if err != nil {
			return Inputs{}, nil, err
		}
	}

	if cfg.Data.ItemsFile != "" {
		in.Placement, err = treasure.LoadFile(cfg.Data.ItemsFile)
		if err != nil {
			return Inputs{}, nil, err
		}
	}

	if cfg.Data.RulesFile != "" {
		extra, err := mapobjects.LoadRuleSet(cfg.Data.RulesFile)
		if err != nil {
			return Inputs{}, nil, fmt.Errorf("loading map rules: %w", err)
		}
		in.Rules = in.Rules.Merge(extra)
	}

	return in, img, nil
}
