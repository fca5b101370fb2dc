// Package config loads service configuration in layers: built-in defaults,
// an optional YAML file, then VIBEREEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/denisok6893-rgb/vibereel/internal/logger"
	"github.com/denisok6893-rgb/vibereel/internal/tmdb"
)

const (
	// PathEnvVar overrides the config file location.
	PathEnvVar = "CONFIG_PATH"
	envPrefix  = "VIBEREEL_"
	// APIKeyEnvVar is honoured when tmdb.api_key is otherwise unset.
	APIKeyEnvVar = "TMDB_API_KEY"
)

var defaultPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	TMDb     TMDbConfig     `koanf:"tmdb"`
	Classify ClassifyConfig `koanf:"classify"`
	Migrate  MigrateConfig  `koanf:"migrate"`
	Log      logger.Config  `koanf:"log"`
}

type ServerConfig struct {
	Address         string        `koanf:"address"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
	// SeedPath optionally points at a JSON array of provider metadata that
	// is classified and upserted on start.
	SeedPath string `koanf:"seed_path"`
}

type TMDbConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Language    string        `koanf:"language"`
	MinInterval time.Duration `koanf:"min_interval"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	Timeout     time.Duration `koanf:"timeout"`
	// BreakerFailures consecutive upstream failures pause requests for
	// BreakerCooldown.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

type ClassifyConfig struct {
	WeightsPath   string `koanf:"weights_path"`
	OverridesPath string `koanf:"overrides_path"`
}

type MigrateConfig struct {
	Limit     int `koanf:"limit"`
	MaxPages  int `koanf:"max_pages"`
	BatchSize int `koanf:"batch_size"`
	MinVotes  int `koanf:"min_votes"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "vibereel.db"},
		TMDb: TMDbConfig{
			BaseURL:     "https://api.themoviedb.org/3",
			Language:    "en-US",
			MinInterval: 250 * time.Millisecond,
			CacheTTL:    5 * time.Minute,
			Timeout:     10 * time.Second,

			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Migrate: MigrateConfig{
			Limit:     500,
			MaxPages:  10,
			BatchSize: 50,
			MinVotes:  100,
		},
		Log: logger.Config{Level: logger.DefaultLevel},
	}
}

// Client converts the section to the provider client config.
func (c TMDbConfig) Client() tmdb.Config {
	return tmdb.Config{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Language:    c.Language,
		MinInterval: c.MinInterval,
		CacheTTL:    c.CacheTTL,
		Timeout:     c.Timeout,
		Failures:    c.BreakerFailures,
		Cooldown:    c.BreakerCooldown,
	}
}

// LoadEnvFiles reads .env.local then .env into the process environment.
// Variables already set are never overwritten, and missing files are fine.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env.local", ".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load layers defaults, the YAML file at path (or CONFIG_PATH, or
// ./config.yaml when present) and the environment, then validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.TMDb.APIKey == "" {
		cfg.TMDb.APIKey = os.Getenv(APIKeyEnvVar)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps VIBEREEL_TMDB__API_KEY to tmdb.api_key.
func envKey(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Address == "":
		return errors.New("config: server.address is required")
	case c.Database.Path == "":
		return errors.New("config: database.path is required")
	case c.TMDb.MinInterval < 0:
		return errors.New("config: tmdb.min_interval must not be negative")
	case c.TMDb.CacheTTL < 0:
		return errors.New("config: tmdb.cache_ttl must not be negative")
	case c.Migrate.Limit <= 0:
		return errors.New("config: migrate.limit must be positive")
	case c.Migrate.MaxPages <= 0:
		return errors.New("config: migrate.max_pages must be positive")
	case c.Migrate.BatchSize <= 0:
		return errors.New("config: migrate.batch_size must be positive")
	case c.Migrate.MinVotes < 0:
		return errors.New("config: migrate.min_votes must not be negative")
	}
	return nil
}
