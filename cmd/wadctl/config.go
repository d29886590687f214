package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/wad"
	"github.com/meigma/wad/build"
)

// Config is the wadctl configuration file.
//
// Example:
//
//	files:
//	  - ${HOME}/doom/doom2.wad
//	  - mods/hud.wad
//	cache_dir: ${HOME}/.cache/wad
//	cache_max_bytes: 536870912
//	builder: [glbsp, -q, "{src}", -o, "{dst}"]
//	converter: [deh2ddf, "{src}", "{dst}"]
//	external_ddf: [DDFTHING]
type Config struct {
	// Files is the load order applied before any archives named on the
	// command line.
	Files []string `yaml:"files"`

	// CacheDir is the central derived-artifact directory.
	CacheDir string `yaml:"cache_dir"`

	// CacheMaxBytes bounds the cache; 0 means unlimited.
	CacheMaxBytes int64 `yaml:"cache_max_bytes"`

	// Builder is the index builder argument vector.
	Builder []string `yaml:"builder"`

	// Converter is the format converter argument vector.
	Converter []string `yaml:"converter"`

	// ExternalDDF lists DDF lumps loaded from outside WADs.
	ExternalDDF []string `yaml:"external_ddf"`
}

// LoadConfig reads a configuration file. An empty path yields the zero
// configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} references in paths.
func (c *Config) expandVariables() {
	for i, f := range c.Files {
		c.Files[i] = os.ExpandEnv(f)
	}
	c.CacheDir = os.ExpandEnv(c.CacheDir)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.CacheMaxBytes < 0 {
		errs = append(errs, errors.New("cache_max_bytes must be >= 0"))
	}
	if len(c.Builder) > 0 && !containsPlaceholder(c.Builder, build.TargetPlaceholder) {
		errs = append(errs, fmt.Errorf("builder must reference %s", build.TargetPlaceholder))
	}
	if len(c.Converter) > 0 && !containsPlaceholder(c.Converter, build.TargetPlaceholder) {
		errs = append(errs, fmt.Errorf("converter must reference %s", build.TargetPlaceholder))
	}
	for _, name := range c.ExternalDDF {
		if _, ok := wad.SubsystemForName(wad.CanonicalName(name)); !ok {
			errs = append(errs, fmt.Errorf("external_ddf: unknown lump %q", name))
		}
	}
	return errors.Join(errs...)
}

func containsPlaceholder(argv []string, placeholder string) bool {
	return slices.ContainsFunc(argv, func(a string) bool {
		return strings.Contains(a, placeholder)
	})
}
