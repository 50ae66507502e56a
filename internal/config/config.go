package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Preference store backends.
const (
	PreferencesMemory  = "memory"
	PreferencesSession = "session"
	PreferencesRedis   = "redis"
)

// Config holds the backoffice settings read from the environment.
type Config struct {
	Addr            string        `env:"BACKOFFICE_ADDR" envDefault:":8080"`
	BasePath        string        `env:"BACKOFFICE_BASE_PATH" envDefault:"/admin"`
	SnapshotFile    string        `env:"BACKOFFICE_SNAPSHOT_FILE"`
	DatabasePath    string        `env:"BACKOFFICE_DB_PATH"`
	POSURL          string        `env:"BACKOFFICE_POS_URL"`
	POSAPIKey       string        `env:"BACKOFFICE_POS_API_KEY"`
	ModalManifest   string        `env:"BACKOFFICE_MODAL_MANIFEST"`
	Preferences     string        `env:"BACKOFFICE_PREFERENCES" envDefault:"memory"`
	RedisURL        string        `env:"BACKOFFICE_REDIS_URL"`
	RedisPrefix     string        `env:"BACKOFFICE_REDIS_PREFIX" envDefault:"backoffice:prefs:"`
	SessionLifetime time.Duration `env:"BACKOFFICE_SESSION_LIFETIME" envDefault:"24h"`
	AllowedOrigins  []string      `env:"BACKOFFICE_ALLOWED_ORIGINS" envSeparator:","`
	ChartAssetsURL  string        `env:"BACKOFFICE_CHART_ASSETS_URL"`
	ChartCacheTTL   time.Duration `env:"BACKOFFICE_CHART_CACHE_TTL" envDefault:"5m"`
	LogLevel        string        `env:"BACKOFFICE_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"BACKOFFICE_LOG_FORMAT" envDefault:"text"`
}

// Load reads the given dotenv files, skipping missing ones, then parses the
// environment. Variables already set win over dotenv values.
func Load(files ...string) (*Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.Preferences = strings.ToLower(strings.TrimSpace(c.Preferences))
	switch c.Preferences {
	case PreferencesMemory, PreferencesSession:
	case PreferencesRedis:
		if c.RedisURL == "" {
			return errors.New("config: BACKOFFICE_REDIS_URL is required for redis preferences")
		}
	default:
		return fmt.Errorf("config: unknown preference store %q", c.Preferences)
	}
	sources := 0
	for _, source := range []string{c.SnapshotFile, c.DatabasePath, c.POSURL} {
		if source != "" {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("config: set only one of BACKOFFICE_SNAPSHOT_FILE, BACKOFFICE_DB_PATH or BACKOFFICE_POS_URL")
	}
	return nil
}

// Logger builds a logrus logger from the level and format settings.
func (c Config) Logger() (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.SetLevel(level)
	switch strings.ToLower(c.LogFormat) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return logger, nil
}
