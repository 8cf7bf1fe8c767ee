// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package config loads sendlater configuration from a YAML file with
// command-line flag overrides.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults for optional settings.
const (
	DefaultHTTPAddr    = "127.0.0.1:3040"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
)

// Config holds the service configuration.
type Config struct {
	HTTP struct {
		Addr string `koanf:"addr"`
	} `koanf:"http"`
	Metrics struct {
		// Addr is the metrics/health listen address; empty disables the
		// observability server.
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`
	Database struct {
		URL string `koanf:"url"`
	} `koanf:"database"`
	Log struct {
		Format string `koanf:"format"`
	} `koanf:"log"`
}

// Load reads configuration with precedence: defaults < YAML file < flags.
// path may be empty to skip the file layer. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"http.addr":    DefaultHTTPAddr,
		"metrics.addr": DefaultMetricsAddr,
		"log.format":   DefaultLogFormat,
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_DEFAULTS_FAILED").With("key", key).Wrap(err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http.addr is required")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	return nil
}
