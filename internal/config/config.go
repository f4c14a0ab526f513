package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IndexEnvVar names the environment (or dotenv) key holding the default index file.
const IndexEnvVar = "CODESEARCH_INDEX"

// Config is the in-memory representation of ~/.codesearch/config.yaml.
type Config struct {
	IndexFile string   `yaml:"index_file,omitempty"`
	Ignore    []string `yaml:"ignore,omitempty"`
	LogLevel  string   `yaml:"log_level,omitempty"`
}

// Dir returns the absolute path to ~/.codesearch/.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".codesearch"), nil
}

// ConfigPath returns the absolute path to ~/.codesearch/config.yaml.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{LogLevel: "warn"}
}

// Load reads and parses the config file at path, or ~/.codesearch/config.yaml
// when path is empty. A missing default file yields DefaultConfig; a missing
// explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.IndexFile, err = ExpandPath(cfg.IndexFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveIndexFile picks the index file to use: the flag value if set, then
// index_file from the config, then CODESEARCH_INDEX.
func (c *Config) ResolveIndexFile(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.IndexFile != "" {
		return c.IndexFile, nil
	}
	v, err := GetConfigValue(IndexEnvVar)
	if err != nil {
		return "", err
	}
	if v != "" {
		return ExpandPath(v)
	}
	return "", fmt.Errorf("no index file given: pass a flag, set index_file in the config, or set %s", IndexEnvVar)
}
