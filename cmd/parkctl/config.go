package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// cliConfig is the parkctl configuration file.
type cliConfig struct {
	APIURL      string `yaml:"api_url"`
	SessionFile string `yaml:"session_file"`
	Timezone    string `yaml:"timezone"`
	PageSize    int    `yaml:"page_size"`

	location *time.Location
}

func defaultConfigPath() string {
	if p := os.Getenv("PARKCTL_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "parkctl.yaml"
	}
	return filepath.Join(dir, "parkctl", "config.yaml")
}

// loadConfig reads path; a missing file means all defaults.
func loadConfig(path string) (*cliConfig, error) {
	var cfg cliConfig
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8080/api"
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = filepath.Join(filepath.Dir(path), "session.json")
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Warsaw"
	}
	if cfg.location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return &cfg, nil
}
