// Package main is the entry point for the map object randomizer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/ffmq-rando/internal/config"
	"github.com/Faultbox/ffmq-rando/internal/logger"
	"github.com/Faultbox/ffmq-rando/internal/randomizer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Options()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== FFMQ map object randomizer ===",
		zap.String("rom", cfg.ROM.Input),
		zap.Int64("seed", cfg.Randomizer.Seed),
		zap.Stringer("density", cfg.Randomizer.EnemiesDensity),
		zap.Bool("shuffle", cfg.Randomizer.ShuffleEnemiesPosition),
	)
	logger.Debug("configuration",
		zap.Any("layout", cfg.Layout),
		zap.Any("data", cfg.Data),
		zap.Int("placement_attempts", cfg.Randomizer.PlacementAttempts),
	)

	in, img, err := randomizer.LoadInputs(cfg)
	if err != nil {
		logger.Error("failed to load inputs", zap.Error(err))
		os.Exit(1)
	}
	if in.Maps != nil {
		logger.Debug("maps loaded", zap.Int("count", in.Maps.Len()), zap.String("dir", cfg.Data.MapsDir))
	}
	if in.Placement != nil {
		logger.Debug("treasure placement loaded", zap.Int("locations", len(in.Placement.Locations)))
	}

	report, err := randomizer.Run(cfg, in, logger.Named("randomizer"))
	if err != nil {
		logger.Error("randomization failed", zap.Error(err))
		os.Exit(1)
	}
	reportPasses(report)

	if err := img.Save(cfg.ROM.Output); err != nil {
		logger.Error("failed to save ROM", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("ROM written",
		zap.String("path", cfg.ROM.Output),
		zap.Int64("seed", cfg.Randomizer.Seed),
	)
}

// reportPasses logs what each pass changed and warns about anything that
// did not go as configured.
func reportPasses(r *randomizer.Report) {
	logger.Debug("density pass", zap.Int("disabled", r.Disabled))
	logger.Debug("placement pass",
		zap.Int("areas", r.Placement.Areas),
		zap.Int("placed", r.Placement.Placed),
		zap.Int("fallback", r.Placement.Fallback),
	)
	logger.Debug("chest pass", zap.Int("linked", r.ChestsLinked))

	if len(r.MissingRules) > 0 {
		logger.Warn("map rules without a loaded map", zap.Strings("maps", r.MissingRules))
	}
	if r.Placement.Unplaced > 0 {
		logger.Warn("enemies kept at their original position", zap.Int("count", r.Placement.Unplaced))
	}
	if r.Placement.Disabled > 0 {
		logger.Warn("enemies disabled for lack of a free tile", zap.Int("count", r.Placement.Disabled))
	}
}
