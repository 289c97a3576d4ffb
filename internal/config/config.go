// Package config provides configuration management for phonenet.
//
// Config file locations (priority order):
//  1. $PHONENET_CONFIG
//  2. ./phonenet.yaml
//  3. ~/.config/phonenet/config.yaml
//  4. /etc/phonenet/config.yaml
//
// Every key can be overridden from the environment with the PHONENET_
// prefix, dots replaced by underscores (PHONENET_ROUTING_MAX_HOPS).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phonenet/internal/routing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "PHONENET"

// Config is the runtime configuration shared by the binaries
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Network NetworkConfig `yaml:"network" mapstructure:"network"`
	Routing RoutingConfig `yaml:"routing" mapstructure:"routing"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// LogConfig selects the log level and handler
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// NetworkConfig names the snapshot file and when it is used
type NetworkConfig struct {
	File     string `yaml:"file" mapstructure:"file"`
	AutoLoad bool   `yaml:"autoload" mapstructure:"autoload"`
	AutoSave bool   `yaml:"autosave" mapstructure:"autosave"`
	Watch    bool   `yaml:"watch" mapstructure:"watch"`
}

// RoutingConfig tunes the trunk route search
type RoutingConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
	MaxHops  int    `yaml:"max_hops" mapstructure:"max_hops"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`

	// DataDir holds the snapshot files the API saves and loads. Empty means
	// the directory of network.file.
	DataDir string `yaml:"data_dir,omitempty" mapstructure:"data_dir"`
}

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides apply either way.
func Load() (*Config, string, error) {
	return LoadFromPath(FindConfigPath())
}

// LoadFromPath loads config from a specific path. An empty path loads
// defaults and environment overrides only.
func LoadFromPath(path string) (*Config, string, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, path, fmt.Errorf("read config: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("network.file", d.Network.File)
	v.SetDefault("network.autoload", d.Network.AutoLoad)
	v.SetDefault("network.autosave", d.Network.AutoSave)
	v.SetDefault("network.watch", d.Network.Watch)
	v.SetDefault("routing.strategy", d.Routing.Strategy)
	v.SetDefault("routing.max_hops", d.Routing.MaxHops)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.data_dir", d.Server.DataDir)
	return v
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Log:     LogConfig{Level: "info", Format: "text"},
		Network: NetworkConfig{File: "./network.json"},
		Routing: RoutingConfig{Strategy: string(routing.BreadthFirst)},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// applyDefaults fills in values left empty by the config file
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Network.File == "" {
		c.Network.File = d.Network.File
	}
	if c.Routing.Strategy == "" {
		c.Routing.Strategy = d.Routing.Strategy
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}

// Validate rejects values the binaries cannot act on
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	switch routing.Strategy(strings.ToLower(c.Routing.Strategy)) {
	case routing.BreadthFirst, routing.DepthFirst:
	default:
		return fmt.Errorf("invalid routing.strategy %q", c.Routing.Strategy)
	}
	if c.Routing.MaxHops < 0 {
		return fmt.Errorf("invalid routing.max_hops %d", c.Routing.MaxHops)
	}
	if strings.TrimSpace(c.Network.File) == "" {
		return fmt.Errorf("network.file is required")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// DataDir returns the directory API snapshot files are confined to
func (c *Config) DataDir() string {
	if c.Server.DataDir != "" {
		return c.Server.DataDir
	}
	return filepath.Dir(c.Network.File)
}

// RoutingOptions converts the routing section into search options
func (c *Config) RoutingOptions() []routing.Option {
	return []routing.Option{
		routing.WithStrategy(routing.ParseStrategy(strings.ToLower(c.Routing.Strategy))),
		routing.WithMaxHops(c.Routing.MaxHops),
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Log: %s (%s)\n", c.Log.Level, c.Log.Format)
	summary += fmt.Sprintf("Network: %s (autoload=%t, autosave=%t, watch=%t)\n", c.Network.File, c.Network.AutoLoad, c.Network.AutoSave, c.Network.Watch)
	summary += fmt.Sprintf("Routing: %s", c.Routing.Strategy)
	if c.Routing.MaxHops > 0 {
		summary += fmt.Sprintf(", max %d hops", c.Routing.MaxHops)
	}
	return summary
}
