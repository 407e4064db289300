// Package config loads the YAML configuration shared by every command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration. Zero sections take their defaults.
type Config struct {
	Schema   string         `yaml:"schema"` // introspection JSON or SDL file loaded at startup
	Cache    string         `yaml:"cache"`  // cache snapshot file loaded at startup
	Synth    SynthConfig    `yaml:"synth"`
	Document DocumentConfig `yaml:"document"`
	Entities EntitiesConfig `yaml:"entities"`
	Log      LogConfig      `yaml:"log"`
	OTel     OTelConfig     `yaml:"otel"`
}

type SynthConfig struct {
	MaxDepth     int `yaml:"maxDepth"`     // form initialization
	ItemMaxDepth int `yaml:"itemMaxDepth"` // values appended to lists
}

type DocumentConfig struct {
	MaxDepth   int    `yaml:"maxDepth"`
	NameSuffix string `yaml:"nameSuffix"`
}

type EntitiesConfig struct {
	IndexSize int `yaml:"indexSize"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

type OTelConfig struct {
	Endpoint string `yaml:"endpoint"` // empty disables tracing
	Service  string `yaml:"service"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Synth:    SynthConfig{MaxDepth: 2, ItemMaxDepth: 3},
		Document: DocumentConfig{MaxDepth: 3, NameSuffix: "Mock"},
		Entities: EntitiesConfig{IndexSize: 128},
		Log:      LogConfig{Level: "info", Format: "console"},
		OTel:     OTelConfig{Service: "apollo-cache-manager"},
	}
}

// Error is a configuration file error.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Message
	}
	return "config: " + e.Path + ": " + e.Message
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.decode(data); err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML text over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks values that no command could work with. Depth limits
// are not checked: any value, including zero or less, bounds traversal.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return &Error{Message: fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format)}
	}
	if c.Entities.IndexSize <= 0 {
		return &Error{Message: fmt.Sprintf("entities.indexSize must be positive, got %d", c.Entities.IndexSize)}
	}
	if c.OTel.Endpoint != "" && c.OTel.Service == "" {
		return &Error{Message: "otel.service is required when otel.endpoint is set"}
	}
	return nil
}
