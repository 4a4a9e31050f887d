package utils

import (
	"os"
	"path/filepath"
)

var (
	HelioHome   string
	HelioConfig string
)

func GetHelioHome() string {
	if HelioHome != "" {
		return HelioHome
	}

	home := os.Getenv("HELIOHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".helio"))
}

func GetHelioConfigPath() string {
	if HelioConfig != "" {
		return HelioConfig
	}

	return GetHelioHome() + "/config/config.toml"
}
