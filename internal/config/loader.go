package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"decorator-position.yml",
	"decorator-position.yaml",
	".decorator-position.yml",
	".decorator-position.yaml",
	"decorator-position.toml",
	".decorator-position.toml",
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a config file. If configPath is non-empty, that file
// is loaded directly. Otherwise, Load searches the current working directory
// using Discover. If no config file is found, DefaultConfig is returned.
//
// Files ending in .toml are read as TOML, anything else as YAML. Partial
// files are supported: any fields not specified retain their default values.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	cfg, err := Parse(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes config data in the format named by ext (".toml" or YAML
// otherwise) over the defaults and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	// Start from defaults so missing fields retain non-zero defaults.
	cfg := DefaultConfig()

	if strings.EqualFold(ext, ".toml") {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		if keys := unknownTOMLKeys(md); len(keys) > 0 {
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unknownTOMLKeys lists undecoded keys, ignoring those inside override
// entries, which DecoratorEntry.UnmarshalTOML checks itself.
func unknownTOMLKeys(md toml.MetaData) []string {
	var keys []string
	for _, k := range md.Undecoded() {
		if len(k) > 3 && k[0] == "decorator-position" && k[1] == "overrides" {
			continue
		}
		keys = append(keys, k.String())
	}
	slices.Sort(keys)
	return keys
}
