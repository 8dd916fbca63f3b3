// Package config handles configuration loading and management for httpdoc.
//
// It provides functionality for:
//   - Loading configuration from .httpdoc.json or .httpdoc.yaml files
//   - Default configuration values
//   - Translating settings into parser options
package config
