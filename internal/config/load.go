package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variables that override config.toml.
const (
	EnvBaseDir  = "TASKER_BASE_DIR"
	EnvFile     = "TASKER_FILE"
	EnvEncoding = "TASKER_ENCODING"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	BaseDir   string `toml:"base_dir"`
	File      string `toml:"file"`
	Encoding  string `toml:"encoding"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Google    struct {
		List string `toml:"list"`
	} `toml:"google"`
}

// Load builds a Config from, in increasing priority:
// 1. Defaults
// 2. config.toml in the config directory (optional)
// 3. Environment variables
//
// Command-line flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg, cfg.ConfigPath()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigPath(), err)
	}

	loadFromEnv(cfg)
	cfg.BaseDir = expandPath(cfg.BaseDir)

	return cfg, nil
}

// loadConfigFile overlays non-empty values from the TOML file at path.
// A missing file is not an error.
func loadConfigFile(cfg *Config, path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	setString(&cfg.BaseDir, fc.BaseDir)
	setString(&cfg.File, fc.File)
	setString(&cfg.Encoding, fc.Encoding)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.GoogleList, fc.Google.List)
	return nil
}

func loadFromEnv(cfg *Config) {
	setString(&cfg.BaseDir, os.Getenv(EnvBaseDir))
	setString(&cfg.File, os.Getenv(EnvFile))
	setString(&cfg.Encoding, os.Getenv(EnvEncoding))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ApplyFlags overrides file and environment settings with command-line
// values. Empty values are ignored.
func (c *Config) ApplyFlags(baseDir, file string) {
	if baseDir != "" {
		c.BaseDir = expandPath(baseDir)
	}
	setString(&c.File, file)
}
