// Package randomizer runs the map object passes over a ROM image.
package randomizer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ffmq-rando/internal/config"
	"github.com/Faultbox/ffmq-rando/pkg/mapobjects"
	"github.com/Faultbox/ffmq-rando/pkg/maps"
	"github.com/Faultbox/ffmq-rando/pkg/rng"
	"github.com/Faultbox/ffmq-rando/pkg/treasure"
)

// Inputs are the collaborators of a run. Maps is only required when enemy
// positions are shuffled; Placement may be nil.
type Inputs struct {
	ROM       mapobjects.ROM
	Maps      *maps.Set
	Placement *treasure.Placement
	Rules     mapobjects.RuleSet
	Specials  *mapobjects.Specials // nil selects mapobjects.DefaultSpecials
}

// Report summarizes what a run changed.
type Report struct {
	Collections  int
	Slots        int
	Disabled     int
	Placement    mapobjects.PlacementStats
	ChestsLinked int
	MissingRules []string
}

// Run loads the object table, applies density filtering, enemy shuffling
// and chest linking, and writes the table back.
//
// Every pass draws from one stream seeded with cfg.Randomizer.Seed, always
// in the same order, so a seed reproduces the same ROM.
func Run(cfg *config.Config, in Inputs, log *zap.Logger) (*Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := cfg.Randomizer

	ol, err := mapobjects.Load(in.ROM, cfg.Layout.Layout())
	if err != nil {
		return nil, fmt.Errorf("loading object table: %w", err)
	}
	ol.SetLogger(log.Named("mapobjects"))
	if in.Specials != nil {
		ol.SetSpecials(*in.Specials)
	}

	report := &Report{Collections: ol.Len(), Slots: ol.SlotCount()}
	log.Info("object table loaded",
		zap.Int("collections", report.Collections),
		zap.Int("slots", report.Slots),
		zap.Int("chests", len(ol.Chests())),
	)

	random := rng.New(r.Seed)

	report.Disabled, err = ol.ApplyDensity(r.EnemiesDensity.Percent(), random)
	if err != nil {
		return nil, err
	}

	if r.ShuffleEnemiesPosition {
		if in.Maps == nil {
			return nil, fmt.Errorf("shuffling enemy positions: no maps loaded")
		}
		ruleSet := in.Rules
		if ruleSet == nil {
			ruleSet = mapobjects.DefaultRuleSet()
		}
		rules, missing := ruleSet.Resolve(in.Maps.Lookup)
		report.MissingRules = missing
		log.Debug("map rules resolved", zap.Int("rules", len(rules)), zap.Int("missing", len(missing)))

		report.Placement, err = ol.ShuffleEnemies(in.Maps, rules, random, mapobjects.PlacementOptions{
			MaxAttempts: r.PlacementAttempts,
		})
		if err != nil {
			return nil, fmt.Errorf("shuffling enemy positions: %w", err)
		}
	}

	report.ChestsLinked, err = ol.UpdateChests(in.Placement)
	if err != nil {
		return nil, fmt.Errorf("linking chests: %w", err)
	}

	if err := ol.WriteAll(in.ROM); err != nil {
		return nil, fmt.Errorf("writing object table: %w", err)
	}

	log.Info("randomization complete",
		zap.Int64("seed", r.Seed),
		zap.Stringer("density", r.EnemiesDensity),
		zap.Bool("shuffle", r.ShuffleEnemiesPosition),
		zap.Int("disabled", report.Disabled),
		zap.Int("chests_linked", report.ChestsLinked),
	)
	return report, nil
}
