package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Drag   DragConfig   `yaml:"drag"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// DragConfig tunes pointer gestures.
type DragConfig struct {
	// Threshold is the pointer travel that turns a press into a drag.
	Threshold float64 `yaml:"threshold"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8080,
			Transport: "stdio",
		},
		Store: StoreConfig{
			Driver:      "sqlite",
			Path:        "kanban.db",
			RedisPrefix: "kanban",
		},
		Log: LogConfig{
			Level: "info",
		},
		Drag: DragConfig{
			Threshold: 1,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("KANBAN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("KANBAN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("KANBAN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KANBAN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("KANBAN_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if driver := os.Getenv("KANBAN_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dbPath := os.Getenv("KANBAN_DB_PATH"); dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if addr := os.Getenv("KANBAN_REDIS_ADDR"); addr != "" {
		cfg.Store.RedisAddr = addr
	}
	if prefix := os.Getenv("KANBAN_REDIS_PREFIX"); prefix != "" {
		cfg.Store.RedisPrefix = prefix
	}
	if level := os.Getenv("KANBAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("KANBAN_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if th := os.Getenv("KANBAN_DRAG_THRESHOLD"); th != "" {
		v, err := strconv.ParseFloat(th, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KANBAN_DRAG_THRESHOLD: %w", err)
		}
		cfg.Drag.Threshold = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport %q: want stdio or http", c.Server.Transport)
	}
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires a path")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redis store requires an address")
		}
	default:
		return fmt.Errorf("invalid store driver %q: want sqlite or redis", c.Store.Driver)
	}
	if c.Drag.Threshold < 0 {
		return fmt.Errorf("drag threshold must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
