package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/httpdoc/packages/core/parser"
	"gopkg.in/yaml.v3"
)

// Config represents the httpdoc configuration
type Config struct {
	Extras         []string `json:"extras,omitempty" yaml:"extras,omitempty"`                 // Tokens skipped between structural tokens
	LenientHeaders *bool    `json:"lenientHeaders,omitempty" yaml:"lenientHeaders,omitempty"` // Accept unrecognized header values as raw text
	Output         string   `json:"output,omitempty" yaml:"output,omitempty"`                 // console, json or yaml
	NoColor        *bool    `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Verbose        *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Extensions     []string `json:"extensions,omitempty" yaml:"extensions,omitempty"` // Request file suffixes
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetLenientHeaders returns the lenient headers setting, defaulting to false
func (c *Config) GetLenientHeaders() bool {
	return getBool(c.LenientHeaders, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".httpdoc.json",
	"httpdoc.config.json",
	".httpdoc.yaml",
	".httpdoc.yml",
}

// OutputFormats lists the accepted values of Config.Output.
var OutputFormats = []string{"console", "json", "yaml", "junit", "tap"}

var extraNames = map[string]parser.Extras{
	"whitespace": parser.ExtraWhitespace,
	"comments":   parser.ExtraComments,
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := c.ParserExtras(); err != nil {
		return err
	}
	if c.Output != "" && !contains(OutputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// ParserExtras converts the extras names into the parser's bit set.
func (c *Config) ParserExtras() (parser.Extras, error) {
	var extras parser.Extras
	for _, name := range c.Extras {
		flag, ok := extraNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown extra %q (expected whitespace or comments)", name)
		}
		extras |= flag
	}
	return extras, nil
}

// ParserOptions returns the parser options this configuration selects.
func (c *Config) ParserOptions() ([]parser.Option, error) {
	extras, err := c.ParserExtras()
	if err != nil {
		return nil, err
	}
	return []parser.Option{
		parser.WithExtras(extras),
		parser.WithLenientHeaders(c.GetLenientHeaders()),
	}, nil
}

// IsRequestFile reports whether path has one of the configured extensions.
func (c *Config) IsRequestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return contains(c.Extensions, ext)
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if len(other.Extras) > 0 {
		result.Extras = other.Extras
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if len(other.Extensions) > 0 {
		result.Extensions = other.Extensions
	}

	// Boolean flags - only override if explicitly set in other config
	if other.LenientHeaders != nil {
		result.LenientHeaders = other.LenientHeaders
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the
// path ends in .yaml or .yml and as JSON otherwise
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
