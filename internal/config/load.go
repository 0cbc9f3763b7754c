package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable holding the config file path.
const EnvConfig = "FFMQ_RANDO_CONFIG"

// configFileName is the name searched for in the working directory and in
// ConfigDir.
const configFileName = "ffmq-rando.yaml"

// Load builds the configuration: defaults, then the config file, then flags.
//
// The file is the one named by -config, else by $FFMQ_RANDO_CONFIG, else
// the first ffmq-rando.yaml found by findConfigFile.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyFlags(cfg); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks in the working directory, then in ConfigDir.
func findConfigFile() string {
	for _, path := range []string{
		configFileName,
		filepath.Join(ConfigDir(), configFileName),
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory of the randomizer.
func ConfigDir() string {
	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ffmq-rando")
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "ffmq-rando")
	}
	return filepath.Join(dir, "ffmq-rando")
}

// filePaths mirrors the path settings of Config. Nil means the file does
// not set the key.
type filePaths struct {
	ROM struct {
		Input  *string `yaml:"input"`
		Output *string `yaml:"output"`
	} `yaml:"rom"`
	Data struct {
		MapsDir   *string `yaml:"maps_dir"`
		ItemsFile *string `yaml:"items_file"`
		RulesFile *string `yaml:"rules_file"`
	} `yaml:"data"`
	Logging struct {
		LogFile *string `yaml:"log_file"`
	} `yaml:"logging"`
}

// loadFromFile merges a YAML file into cfg. Unknown keys are an error.
// Relative ROM, data and log paths set by the file are taken relative to
// the file's directory, so a config can travel with its data.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	var set filePaths
	if err := yaml.Unmarshal(data, &set); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	for _, p := range []struct {
		set *string
		dst *string
	}{
		{set.ROM.Input, &cfg.ROM.Input},
		{set.ROM.Output, &cfg.ROM.Output},
		{set.Data.MapsDir, &cfg.Data.MapsDir},
		{set.Data.ItemsFile, &cfg.Data.ItemsFile},
		{set.Data.RulesFile, &cfg.Data.RulesFile},
		{set.Logging.LogFile, &cfg.Logging.LogFile},
	} {
		if p.set != nil && *p.dst != "" && !filepath.IsAbs(*p.dst) {
			*p.dst = filepath.Join(dir, *p.dst)
		}
	}
	return nil
}
