package config

import (
	"flag"

	"github.com/Faultbox/ffmq-rando/pkg/mapobjects"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagROM     = flag.String("rom", "", "Input ROM image")
	flagOut     = flag.String("out", "", "Output ROM image")
	flagSeed    = flag.Int64("seed", 0, "Randomizer seed (0 keeps the configured seed)")
	flagDensity = flag.String("density", "", "Enemy density: 100%, 75%, 50%, 25% or 0%")
	flagShuffle = flag.Bool("shuffle", false, "Shuffle enemy positions")
	flagQuiet   = flag.Bool("quiet", false, "No console logging")
	flagLogFile = flag.String("log", "", "Write JSON log entries to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the path given with -config, if any.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagROM != "" {
		cfg.ROM.Input = *flagROM
	}
	if *flagOut != "" {
		cfg.ROM.Output = *flagOut
	}
	if *flagSeed != 0 {
		cfg.Randomizer.Seed = *flagSeed
	}
	if *flagDensity != "" {
		d, err := mapobjects.ParseEnemiesDensity(*flagDensity)
		if err != nil {
			return err
		}
		cfg.Randomizer.EnemiesDensity = d
	}
	if *flagShuffle {
		cfg.Randomizer.ShuffleEnemiesPosition = true
	}
	if *flagQuiet {
		cfg.Logging.Quiet = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	return nil
}
