// Package config handles loading operational configuration from a YAML
// file with environment variable overrides.
//
// Config file format (manga-server.yaml):
//
//	walk_concurrency: 128
//	gzip_threshold_bytes: 64
//	infer_file_types: true
//	cache_enabled: true
//
// Configuration sources, in increasing priority order:
//  1. Built-in defaults
//  2. YAML config file (located by FindConfigFile or explicit path)
//  3. Environment variables (WALK_CONCURRENCY, GZIP_THRESHOLD_BYTES,
//     INFER_FILE_TYPES, CACHE_ENABLED)
//
// The server's two CLI positionals, <port> and [path] (spec.md §6.3), are
// never read from this config file — they are parsed directly from
// os.Args in main, deliberately kept separate from this ops-knob layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds operational knobs for the loader and server.
type Config struct {
	// WalkConcurrency caps simultaneously open directory/archive handles
	// during library loading.
	WalkConcurrency int64 `yaml:"walk_concurrency"`

	// GzipThresholdBytes is the raw-length threshold above which a gzip
	// alternative JSON payload is computed and kept (if smaller).
	GzipThresholdBytes int `yaml:"gzip_threshold_bytes"`

	// InferFileTypes enables the magic-byte fallback for archive chapters
	// whose path has no recognized extension.
	InferFileTypes bool `yaml:"infer_file_types"`

	// CacheEnabled turns on the on-disk archive-index cache at
	// {library root}/.manga-cache.db.
	CacheEnabled bool `yaml:"cache_enabled"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		WalkConcurrency:    128,
		GzipThresholdBytes: 64,
		InferFileTypes:     true,
		CacheEnabled:       true,
	}
}

// Load reads configuration from the YAML file at path (if non-empty), then
// applies environment variable overrides on top. If path is empty, only
// defaults and environment variables are applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if v := os.Getenv("WALK_CONCURRENCY"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.WalkConcurrency = n
		}
	}
	if v := os.Getenv("GZIP_THRESHOLD_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GzipThresholdBytes = n
		}
	}
	if v := os.Getenv("INFER_FILE_TYPES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.InferFileTypes = b
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CacheEnabled = b
		}
	}

	return cfg, nil
}

// FindConfigFile returns the path to the first config file found in the
// standard search order, or "" if none is found.
//
// Search order:
//  1. MANGA_SERVER_CONFIG environment variable (explicit override)
//  2. ./manga-server.yaml (current working directory)
//  3. ~/.config/manga-server/config.yaml (XDG user config)
func FindConfigFile() string {
	if p := os.Getenv("MANGA_SERVER_CONFIG"); p != "" {
		return p
	}

	if _, err := os.Stat("manga-server.yaml"); err == nil {
		return "manga-server.yaml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "manga-server", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
