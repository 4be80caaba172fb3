package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
)

// Config holds settings read from the TOML config file. Command-line
// flags override anything set here.
type Config struct {
	// Repo is the owner/name used when synthesizing issue URLs.
	Repo string `toml:"repo"`

	// RootIssue is the default root issue number for extraction.
	RootIssue int `toml:"root_issue"`

	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
	Server  ServerConfig  `toml:"server"`
}

// OutputConfig sets default artifact paths.
type OutputConfig struct {
	JSON     string `toml:"json"`
	Markdown string `toml:"markdown"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
}

// ArchiveConfig points at the MongoDB archive, when enabled.
type ArchiveConfig struct {
	URI string `toml:"uri"`
}

// ServerConfig sets the serve command's listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// defaultConfig returns a config with built-in defaults applied.
func defaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			JSON:     "hierarchy-graph.json",
			Markdown: "hierarchy-outline.md",
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// configPath returns the config file path using XDG standard
// (~/.config/issuegraph/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error: defaults are returned.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := configPath()
		if err != nil {
			return defaultConfig(), nil
		}
		path = p
	}

	cfg := defaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Cache.Backend != cacheBackendFile && cfg.Cache.Backend != cacheBackendRedis {
		return nil, fmt.Errorf("invalid cache backend %q (must be %q or %q)", cfg.Cache.Backend, cacheBackendFile, cacheBackendRedis)
	}
	return cfg, nil
}
