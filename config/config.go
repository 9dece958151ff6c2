// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads crossgate's runtime configuration by layering
// defaults, an optional YAML file, CROSSGATE_-prefixed environment
// variables, and command-line flags, in that priority order. Only this
// package and cmd/crossgatectl read the process environment directly.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "CROSSGATE_"

// Config carries the environment surface spec'd as driver constructor
// arguments, plus the logging knobs needed by cmd/crossgatectl.
type Config struct {
	DatabaseURL    string `koanf:"database_url"`
	MaxPoolSize    int    `koanf:"max_pool_size"`
	LogFormat      string `koanf:"log_format"`
	ServiceVersion string `koanf:"service_version"`
}

func defaults() map[string]any {
	return map[string]any{
		"database_url":    "",
		"max_pool_size":   100,
		"log_format":      "json",
		"service_version": "dev",
	}
}

// Load builds a Config from defaults, an optional --config YAML file,
// CROSSGATE_-prefixed environment variables, and flags, in that order
// of increasing priority. flags may be nil to skip the flag layer (for
// callers that only want file+env resolution).
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := configFilePath(flags); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %q: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// configFilePath reads the --config flag without requiring the caller
// to have parsed it as part of the full flag set yet.
func configFilePath(flags *pflag.FlagSet) string {
	if flags == nil {
		return ""
	}
	path, err := flags.GetString("config")
	if err != nil {
		return ""
	}
	return path
}
