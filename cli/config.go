package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ankit-chaubey/metasift/core"
)

// Config holds the CLI settings.
//
// Config file format (metasift.yaml):
//
//	output: json          # text | json | yaml
//	log_level: warn       # zerolog level name
//	concurrency: 4        # files extracted in parallel, 0 = number of CPUs
//	mime_type: ""         # force a MIME type instead of sniffing each file
//
// Sources, in increasing priority: defaults, YAML file, environment
// (METASIFT_OUTPUT, METASIFT_LOG_LEVEL), command-line flags.
type Config struct {
	Output      string `yaml:"output"`
	LogLevel    string `yaml:"log_level"`
	Concurrency int    `yaml:"concurrency"`
	MIMEType    string `yaml:"mime_type"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Output:   core.OutputText,
		LogLevel: "warn",
	}
}

// LoadConfig reads path over the defaults and applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("METASIFT_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("METASIFT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	c.Output = strings.ToLower(c.Output)
	switch c.Output {
	case core.OutputText, core.OutputJSON, core.OutputYAML:
	default:
		return fmt.Errorf("config: unknown output %q", c.Output)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config: concurrency must not be negative")
	}
	return nil
}
