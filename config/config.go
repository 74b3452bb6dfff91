// Package config loads the service configuration from a yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ListenAddress is the HTTP bind address.
	ListenAddress string `yaml:"listen_address"`
	// User is the local account scheduler commands run as when a request
	// does not name one. Empty means the service's own account.
	User string `yaml:"user"`
	// BinDir prefixes the scheduler binaries. Empty means $PATH lookup.
	BinDir string `yaml:"bin_dir"`
	// WorkDir is the working directory for scheduler commands.
	WorkDir string `yaml:"work_dir"`

	DefaultPartition string `yaml:"default_partition"`
	DefaultJobName   string `yaml:"default_job_name"`
	OutputPattern    string `yaml:"output_pattern"`
	ErrorPattern     string `yaml:"error_pattern"`

	// CommandTimeoutSeconds bounds every scheduler invocation.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds"`
}

func Default() *Config {
	return &Config{
		ListenAddress:         ":8080",
		WorkDir:               "/tmp",
		CommandTimeoutSeconds: 60,
	}
}

// Load reads the config at path, falling back to the CONFIG_PATH environment
// variable. With neither set the defaults are returned as is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	cb, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(cb, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}
