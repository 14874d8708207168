// Package config holds toolchain constants and the runtime configuration
// loaded from nexus.yaml.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File extensions recognized by the CLI.
const (
	SourceFileExt = ".nx"
	BinaryFileExt = ".nxb"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "nexus.yaml"

// Config is the runtime configuration. The zero value is not usable
// directly; call Default or Load.
type Config struct {
	// Limits bound a single program execution.
	Limits struct {
		// MaxSteps caps evaluated AST nodes; 0 means unlimited.
		MaxSteps int64 `yaml:"max_steps"`
		// Timeout is the wall-clock budget; 0 means none.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"limits"`

	// Knowledge configures the local fact store behind knowledge().
	Knowledge struct {
		// DBPath is the sqlite database file. Empty disables the store
		// and knowledge() falls back to an empty result.
		DBPath string `yaml:"db_path"`
	} `yaml:"knowledge"`

	// Gateway configures the external speech service behind say() and
	// listen().
	Gateway struct {
		// Target is a gRPC dial target such as "localhost:50051".
		// Empty disables the gateway and speech falls back to the
		// console.
		Target string `yaml:"target"`
		// ProtoPath is the service definition parsed at connect time.
		ProtoPath string `yaml:"proto_path"`
		// ImportDirs are extra proto import roots.
		ImportDirs []string `yaml:"import_dirs"`
		// Service is the fully qualified service name inside the proto
		// file, e.g. "nexus.speech.Speech".
		Service string `yaml:"service"`
	} `yaml:"gateway"`

	// Voice sets speech defaults a program can override per say().
	Voice struct {
		ID       string  `yaml:"id"`
		Language string  `yaml:"language"`
		Speed    float64 `yaml:"speed"`
	} `yaml:"voice"`
}

// Default returns the configuration used when no nexus.yaml exists: a
// generous step budget, a 30s wall clock, and no external services.
func Default() *Config {
	cfg := &Config{}
	cfg.Limits.MaxSteps = 10_000_000
	cfg.Limits.Timeout = 30 * time.Second
	cfg.Voice.Language = "en"
	cfg.Voice.Speed = 1.0
	return cfg
}

// Load reads a YAML config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Limits.MaxSteps < 0 {
		return nil, fmt.Errorf("parse config: max_steps must not be negative")
	}
	if cfg.Voice.Speed <= 0 {
		return nil, fmt.Errorf("parse config: voice speed must be positive")
	}
	return cfg, nil
}

// LoadOrDefault loads the given path, or DefaultConfigFile when path is
// empty. A missing default file is not an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		return Default(), nil
	}
	return Load(DefaultConfigFile)
}
