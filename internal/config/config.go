// Package config handles randomizer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/ffmq-rando/internal/logger"
	"github.com/Faultbox/ffmq-rando/pkg/mapobjects"
)

// Config holds all randomizer settings.
type Config struct {
	ROM        ROMConfig        `yaml:"rom"`
	Layout     LayoutConfig     `yaml:"layout"`
	Randomizer RandomizerConfig `yaml:"randomizer"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ROMConfig holds input and output image paths.
type ROMConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// LayoutConfig locates the object table in the ROM.
type LayoutConfig struct {
	PointerTable int `yaml:"pointer_table"`
	SlotCount    int `yaml:"slot_count"`
	DataBase     int `yaml:"data_base"`
}

// Layout converts the section to a mapobjects.Layout.
func (l LayoutConfig) Layout() mapobjects.Layout {
	return mapobjects.Layout{
		PointerTable: l.PointerTable,
		SlotCount:    l.SlotCount,
		DataBase:     l.DataBase,
	}
}

// RandomizerConfig holds the settings that change the generated game.
type RandomizerConfig struct {
	Seed                   int64                     `yaml:"seed"`
	ShuffleEnemiesPosition bool                      `yaml:"shuffle_enemies_position"`
	EnemiesDensity         mapobjects.EnemiesDensity `yaml:"enemies_density"`
	PlacementAttempts      int                       `yaml:"placement_attempts"`
}

// DataConfig holds paths to collaborator data.
type DataConfig struct {
	MapsDir   string `yaml:"maps_dir"`   // Directory of .fmap tile maps
	ItemsFile string `yaml:"items_file"` // Treasure placement YAML
	RulesFile string `yaml:"rules_file"` // Extra map rules merged over the defaults
}

// LoggingConfig holds logging settings. The rotation limits apply to
// LogFile only.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Quiet      bool   `yaml:"quiet"` // no console output
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Options converts the section to logger options.
func (l LoggingConfig) Options() logger.Options {
	return logger.Options{
		Level:      l.Level,
		Console:    !l.Quiet,
		File:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	layout := mapobjects.DefaultLayout()
	return &Config{
		ROM: ROMConfig{
			Input:  "ffmq.sfc",
			Output: "ffmq-rando.sfc",
		},
		Layout: LayoutConfig{
			PointerTable: layout.PointerTable,
			SlotCount:    layout.SlotCount,
			DataBase:     layout.DataBase,
		},
		Randomizer: RandomizerConfig{
			Seed:                   0,
			ShuffleEnemiesPosition: false,
			EnemiesDensity:         mapobjects.DensityAll,
			PlacementAttempts:      mapobjects.DefaultMaxAttempts,
		},
		Data: DataConfig{
			MapsDir: "maps",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var err error
	if c.ROM.Input == "" {
		err = multierr.Append(err, errors.New("rom.input is required"))
	}
	if c.ROM.Output == "" {
		err = multierr.Append(err, errors.New("rom.output is required"))
	}
	if c.ROM.Input != "" && c.ROM.Input == c.ROM.Output {
		err = multierr.Append(err, errors.New("rom.output must differ from rom.input"))
	}
	if c.Layout.SlotCount <= 0 {
		err = multierr.Append(err, fmt.Errorf("layout.slot_count must be positive, got %d", c.Layout.SlotCount))
	}
	if c.Layout.PointerTable < 0 || c.Layout.DataBase < 0 {
		err = multierr.Append(err, errors.New("layout offsets must not be negative"))
	}
	if d := c.Randomizer.EnemiesDensity; d < mapobjects.DensityAll || d > mapobjects.DensityNone {
		err = multierr.Append(err, fmt.Errorf("randomizer.enemies_density %d is not a known setting", int(c.Randomizer.EnemiesDensity)))
	}
	if c.Randomizer.PlacementAttempts < 0 {
		err = multierr.Append(err, fmt.Errorf("randomizer.placement_attempts must not be negative, got %d", c.Randomizer.PlacementAttempts))
	}
	if c.Randomizer.ShuffleEnemiesPosition && c.Data.MapsDir == "" {
		err = multierr.Append(err, errors.New("data.maps_dir is required to shuffle enemy positions"))
	}
	if _, lerr := logger.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", lerr))
	}
	if l := c.Logging; l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		err = multierr.Append(err, errors.New("logging rotation limits must not be negative"))
	}
	return err
}
