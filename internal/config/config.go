// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "govern.config"

const (
	DefaultShutdownTimeout = "30s"
	DefaultBlockInterval   = "12s"
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// tempConfig finds an optional top-level config section
type tempConfig struct {
	Config yaml.Node `yaml:"config,omitempty"`
}

type Config struct {
	DatabasePath    string `yaml:"databasePath"    split_words:"true"`
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	GenesisFile     string `yaml:"genesisFile"     split_words:"true"`
	BlockInterval   string `yaml:"blockInterval"   split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
	// MetadataBackend is sqlite, postgres or mysql
	MetadataBackend string `yaml:"metadataBackend" split_words:"true"`
	MetadataDsn     string `yaml:"metadataDsn"     split_words:"true"`
	// ApiPort serves the REST API. Zero disables it.
	ApiPort       uint `yaml:"apiPort"       split_words:"true"`
	MetricsPort   uint `yaml:"metricsPort"   split_words:"true"`
	SubmitEnabled bool `yaml:"submitEnabled" split_words:"true"`
	Tracing       bool `yaml:"tracing"`
	TracingStdout bool `yaml:"tracingStdout" split_words:"true"`
	Debug         bool `yaml:"debug"`
}

func defaultConfig() *Config {
	return &Config{
		DatabasePath:    ".govern",
		BindAddr:        "0.0.0.0",
		GenesisFile:     "",
		BlockInterval:   DefaultBlockInterval,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetadataBackend: "sqlite",
		ApiPort:         8080,
		MetricsPort:     12799,
	}
}

var globalConfig = defaultConfig()

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.govern/govern.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".govern", "govern.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/govern/govern.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/govern/govern.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		var tempCfg tempConfig
		if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		if tempCfg.Config.Kind != 0 {
			// Overlay the config section onto existing defaults
			if err := tempCfg.Config.Decode(globalConfig); err != nil {
				return nil, fmt.Errorf("error parsing config section: %w", err)
			}
		} else if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("govern", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}

func (c *Config) validate() error {
	if _, err := c.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	interval, err := c.BlockIntervalDuration()
	if err != nil {
		return err
	}
	if interval <= 0 {
		return errors.New("blockInterval must be positive")
	}
	switch c.MetadataBackend {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unknown metadataBackend %q", c.MetadataBackend)
	}
	return nil
}

// ShutdownTimeoutDuration parses the configured shutdown timeout
func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: %w", c.ShutdownTimeout, err)
	}
	return d, nil
}

// BlockIntervalDuration parses the configured block interval
func (c *Config) BlockIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.BlockInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid blockInterval %q: %w", c.BlockInterval, err)
	}
	return d, nil
}

// ApiListenAddress returns the REST API address, or "" when disabled
func (c *Config) ApiListenAddress() string {
	if c.ApiPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.BindAddr, strconv.FormatUint(uint64(c.ApiPort), 10))
}

func (c *Config) MetricsListenAddress() string {
	if c.MetricsPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.BindAddr, strconv.FormatUint(uint64(c.MetricsPort), 10))
}
