package config

import (
	"path/filepath"

	"github.com/HelioTeam/helio-go-node/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName = "config.toml"
)

var defaultConfigFilePath = filepath.Join(defaultConfigDir, defaultConfigFileName)

// Config is the top level configuration of a Helio node.
type Config struct {
	// The root directory for all data.
	RootDir string `mapstructure:"home"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	// Where to write the logs: 'stdout' or a file path
	LogPath string `mapstructure:"log_path"`

	// Number of historical tree versions kept on disk
	KeepLastStates int64 `mapstructure:"keep_last_states"`

	// Size of the iavl node cache
	StateCacheSize int `mapstructure:"state_cache_size"`
}

func DefaultConfig() *Config {
	return &Config{
		DBBackend:      "goleveldb",
		DBPath:         defaultDataDir,
		LogLevel:       "info",
		LogFormat:      LogFormatPlain,
		LogPath:        "stdout",
		KeepLastStates: 120,
		StateCacheSize: 1000000,
	}
}

func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.RootDir = utils.GetHelioHome()
	EnsureRoot(cfg.RootDir)

	return cfg
}

// DBDir returns the absolute database directory.
func (cfg *Config) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}
