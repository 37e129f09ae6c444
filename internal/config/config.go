// Package config defines the configuration types and defaults for
// decorator-position.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Alignment values accepted for the properties and methods settings.
const (
	AlignPreferInline = "prefer-inline"
	AlignAbove        = "above"
)

// Config is the top-level configuration.
type Config struct {
	DecoratorPosition DecoratorPosition `yaml:"decorator-position" toml:"decorator-position"`
	Files             FilesConfig       `yaml:"files" toml:"files"`
}

// DecoratorPosition holds the decorator-position rule options as written by
// the user. Unset fields are filled in when the rule is activated.
type DecoratorPosition struct {
	Properties string    `yaml:"properties,omitempty" toml:"properties"`
	Methods    string    `yaml:"methods,omitempty" toml:"methods"`
	Overrides  Overrides `yaml:"overrides,omitempty" toml:"overrides"`
}

// Overrides pins decorator names to a position regardless of member kind.
type Overrides struct {
	Above        []DecoratorEntry `yaml:"above,omitempty" toml:"above"`
	PreferInline []DecoratorEntry `yaml:"prefer-inline,omitempty" toml:"prefer-inline"`
}

// FilesConfig selects which files directory arguments expand to.
type FilesConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	Exclude    []string `yaml:"exclude" toml:"exclude"`
}

// DefaultConfig returns a Config with the default file selection and no
// rule options set.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
			Exclude:    []string{"node_modules", ".git", "dist", "tmp"},
		},
	}
}

// Validate checks option values that a partial file can get wrong.
func (c *Config) Validate() error {
	for _, a := range []struct{ key, value string }{
		{"properties", c.DecoratorPosition.Properties},
		{"methods", c.DecoratorPosition.Methods},
	} {
		switch a.value {
		case "", AlignPreferInline, AlignAbove:
		default:
			return fmt.Errorf("decorator-position.%s: %q is not one of %q, %q",
				a.key, a.value, AlignPreferInline, AlignAbove)
		}
	}
	return nil
}

// Fingerprint returns a stable hash of the configuration, used to tie cached
// results to the options that produced them.
func (c *Config) Fingerprint() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
