// Package config resolves glimpse settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvEditor        = "GLIMPSE_EDITOR"
	EnvAssets        = "GLIMPSE_ASSETS"
	EnvArtifacts     = "GLIMPSE_ARTIFACTS"
	EnvActionDelay   = "GLIMPSE_ACTION_DELAY"
	EnvLaunchTimeout = "GLIMPSE_LAUNCH_TIMEOUT"
	EnvE2E           = "GLIMPSE_E2E"
	EnvUpdate        = "GLIMPSE_UPDATE"
	EnvScenarios     = "GLIMPSE_SCENARIOS"
)

// Config holds settings read from the environment. Zero values mean
// "not set"; callers fall back to their own defaults.
type Config struct {
	Editor        string
	AssetDir      string
	ArtifactDir   string
	ActionDelay   time.Duration
	LaunchTimeout time.Duration
	E2E           bool
	Update        bool
	ScenarioFile  string
}

// Load reads the given .env files (missing files are ignored, existing
// variables are never overridden) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Editor:       os.Getenv(EnvEditor),
		AssetDir:     os.Getenv(EnvAssets),
		ArtifactDir:  os.Getenv(EnvArtifacts),
		E2E:          truthy(os.Getenv(EnvE2E)),
		Update:       truthy(os.Getenv(EnvUpdate)),
		ScenarioFile: os.Getenv(EnvScenarios),
	}

	var err error
	if cfg.ActionDelay, err = duration(EnvActionDelay); err != nil {
		return nil, err
	}
	if cfg.LaunchTimeout, err = duration(EnvLaunchTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

// duration parses a Go duration ("700ms") or a bare number of seconds ("0.7").
func duration(name string) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("config: %s: invalid duration %q", name, v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func truthy(v string) bool {
	return v == "1" || v == "true" || v == "yes"
}

// UpdateRequested reports whether golden files should be rewritten.
func UpdateRequested() bool {
	return truthy(os.Getenv(EnvUpdate))
}
