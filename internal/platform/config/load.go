package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables that override file settings.
const EnvPrefix = "APP_"

// DefaultDir is where Load looks for base.yaml and the profile files.
const DefaultDir = "configs"

func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "startup-toolkit",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"host":             "0.0.0.0",
			"port":             DefaultServerPort,
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "2m",
			"shutdown_timeout": "10s",
			"max_request_size": DefaultMaxRequestSize,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/toolkit.log",
				"max_size":    100,
				"max_backups": 3,
				"max_age":     28,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"endpoint":      "",
			"service_name":  "startup-toolkit",
			"sampling_rate": 1.0,
		},
		"auth": map[string]any{
			"subject_header": "X-User-ID",
			"roles_header":   "X-User-Roles",
		},
		"client": map[string]any{
			"timeout": "10s",
			"retry": map[string]any{
				"max_attempts":     3,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       2.0,
				"jitter_factor":    0.25,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 3,
			},
			"transport": map[string]any{
				"max_idle_conns":          DefaultTransportMaxIdleConns,
				"max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
				"idle_conn_timeout":       DefaultTransportIdleConnTimeout.String(),
			},
		},
		"services": map[string]any{
			"regulatory_feed": map[string]any{
				"enabled":  false,
				"base_url": "",
				"name":     "regulatory-feed",
				"path":     "/v1/updates",
			},
		},
		"storage": map[string]any{
			"driver":            "memory",
			"dsn":               "",
			"max_open_conns":    10,
			"conn_max_lifetime": "30m",
			"auto_migrate":      true,
		},
		"export": map[string]any{
			"archive": map[string]any{
				"driver":            "none",
				"bucket":            "",
				"region":            "us-east-1",
				"endpoint":          "",
				"access_key_id":     "",
				"secret_access_key": "",
				"use_path_style":    false,
			},
		},
		"catalog": map[string]any{
			"dir": "",
		},
		"tools": map[string]any{
			"default_workspace":    DefaultWorkspace,
			"simulation_seed":      0,
			"upcoming_window":      DefaultUpcomingWindow.String(),
			"name_generator_delay": "1500ms",
			"certificate_name":     "Startup Founder",
		},
		"features": map[string]any{
			"flags": map[string]any{"name-generator": true},
		},
	}
}

// Load reads the configuration from DefaultDir. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultDir, profile)
}

// LoadFrom layers, lowest first: built-in defaults, dir/base.yaml,
// dir/<profile>.yaml and APP_ environment variables. Missing files are
// skipped. The result is not validated.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), ""), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(dir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(dir, profile+".yaml"))
	}
	for _, path := range files {
		if err := loadOptional(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

func loadOptional(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// envKey maps APP_SERVER_READ_TIMEOUT onto server.read_timeout. Variables
// matching no known key split on every underscore.
func envKey(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}
