// Package config loads the optimizer configuration from YAML with
// environment overrides for endpoints and credentials.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Engine   Engine   `yaml:"engine"`
	Provider Provider `yaml:"provider"`
	Cache    Cache    `yaml:"cache"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Engine holds the strategy gate and the canonical time constants. The
// exact path is a deliberate complexity/quality trade-off: it is optimal
// but O(vehicles^orders), so it only runs under the gate.
type Engine struct {
	MaxExactOrders   int     `yaml:"maxExactOrders"`
	MaxExactVehicles int     `yaml:"maxExactVehicles"`
	DwellMin         float64 `yaml:"dwellMin"`
	SpeedKmh         float64 `yaml:"speedKmh"`
}

type Provider struct {
	BaseURL        string        `yaml:"baseUrl"`
	Profile        string        `yaml:"profile"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	RatePerSec     float64       `yaml:"ratePerSec"`
	RateBurst      int           `yaml:"rateBurst"`
}

type Cache struct {
	Backend     string        `yaml:"backend"` // memory, redis or postgres
	TTL         time.Duration `yaml:"ttl"`
	MaxEntries  int           `yaml:"maxEntries"`
	RedisURL    string        `yaml:"redisUrl"`
	DatabaseURL string        `yaml:"databaseUrl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "console"},
		Engine: Engine{
			MaxExactOrders:   12,
			MaxExactVehicles: 6,
			DwellMin:         10,
			SpeedKmh:         30,
		},
		Provider: Provider{
			BaseURL:        "http://localhost:5000",
			Profile:        "driving",
			RequestTimeout: 10 * time.Second,
			RatePerSec:     5,
			RateBurst:      5,
		},
		Cache: Cache{
			Backend:    "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 500,
		},
	}
}

// Load reads path (ignored when empty or absent), fills zero fields with
// defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Engine.MaxExactOrders <= 0 {
		cfg.Engine.MaxExactOrders = def.Engine.MaxExactOrders
	}
	if cfg.Engine.MaxExactVehicles <= 0 {
		cfg.Engine.MaxExactVehicles = def.Engine.MaxExactVehicles
	}
	if cfg.Engine.DwellMin <= 0 {
		cfg.Engine.DwellMin = def.Engine.DwellMin
	}
	if cfg.Engine.SpeedKmh <= 0 {
		cfg.Engine.SpeedKmh = def.Engine.SpeedKmh
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if cfg.Provider.Profile == "" {
		cfg.Provider.Profile = def.Provider.Profile
	}
	if cfg.Provider.RequestTimeout <= 0 {
		cfg.Provider.RequestTimeout = def.Provider.RequestTimeout
	}
	if cfg.Provider.RatePerSec <= 0 {
		cfg.Provider.RatePerSec = def.Provider.RatePerSec
	}
	if cfg.Provider.RateBurst <= 0 {
		cfg.Provider.RateBurst = def.Provider.RateBurst
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = def.Cache.Backend
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = def.Cache.TTL
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = def.Cache.MaxEntries
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ROUTING_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Cache.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
