// Package config loads flowpad configuration from a TOML file.
//
// Lookup order: an explicit --config path, then
// $XDG_CONFIG_HOME/flowpad/config.toml, then ~/.config/flowpad/config.toml.
// A missing file is not an error; defaults apply for any absent field, and
// command-line flags override everything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the config file.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	CacheFile  = "file"
	CacheRedis = "redis"
	CacheOff   = "off"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the diagram document store.
type StoreConfig struct {
	Backend  string `toml:"backend"` // "memory" or "mongo"
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// CacheConfig selects and configures the render artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis" or "off"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

// RenderConfig configures rendering defaults.
type RenderConfig struct {
	Format string `toml:"format"` // "svg" or "dot"
}

// duration wraps time.Duration for TOML decoding of strings like "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8420"},
		Store:  StoreConfig{Backend: StoreMemory, MongoURI: "mongodb://localhost:27017", Database: "flowpad"},
		Cache:  CacheConfig{Backend: CacheFile, RedisAddr: "localhost:6379", TTL: duration{24 * time.Hour}},
		Render: RenderConfig{Format: "svg"},
	}
}

// Load reads configuration from path. An empty path falls back to the
// default location; a missing file yields [Default].
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// TTLDuration returns the configured cache TTL.
func (c CacheConfig) TTLDuration() time.Duration {
	return c.TTL.Duration
}

// applyDefaults fills fields the file left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.MongoURI == "" {
		cfg.Store.MongoURI = def.Store.MongoURI
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = def.Store.Database
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = def.Cache.Backend
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = def.Cache.RedisAddr
	}
	if cfg.Cache.TTL.Duration == 0 {
		cfg.Cache.TTL = def.Cache.TTL
	}
	if cfg.Render.Format == "" {
		cfg.Render.Format = def.Render.Format
	}
}

// CacheDir returns the configured cache directory, defaulting to
// ~/.cache/flowpad.
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "flowpad")
	}
	return ".flowpad-cache"
}

// defaultPath locates the user config file, or "" if no home is known.
func defaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flowpad", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flowpad", "config.toml")
}
