package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Port                 string   `yaml:"port"`
	DBDriver             string   `yaml:"db_driver"`
	DatabaseURL          string   `yaml:"database_url"`
	JWTSecret            string   `yaml:"jwt_secret"`
	AllowedOrigins       []string `yaml:"allowed_origins"`
	LogLevel             string   `yaml:"log_level"`
	LogFormat            string   `yaml:"log_format"`
	LogFile              string   `yaml:"log_file"`
	GinMode              string   `yaml:"gin_mode"`
	ReorderEnforceAccess bool     `yaml:"reorder_enforce_access"`
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func defaults() *Config {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	return &Config{
		Port:           "3000",
		DBDriver:       "postgres",
		AllowedOrigins: origins,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads .env (if present), then the YAML file named by TASKMASTER_CONFIG
// (if set), then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("TASKMASTER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)

		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("PORT", &cfg.Port)
	setString("DB_DRIVER", &cfg.DBDriver)
	setString("DATABASE_URL", &cfg.DatabaseURL)
	setString("JWT_SECRET", &cfg.JWTSecret)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("LOG_FORMAT", &cfg.LogFormat)
	setString("LOG_FILE", &cfg.LogFile)
	setString("GIN_MODE", &cfg.GinMode)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, clientURL)
	}

	if allowed := os.Getenv("ALLOWED_ORIGINS"); allowed != "" {
		for _, origin := range strings.Split(allowed, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	if v := os.Getenv("REORDER_ENFORCE_ACCESS"); v != "" {
		enforce, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("invalid REORDER_ENFORCE_ACCESS %q: %w", v, err)
		}

		cfg.ReorderEnforceAccess = enforce
	}

	return nil
}

// Validate reports the first setting that prevents the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}

	return nil
}
