// Package config loads sredstva settings from defaults, an optional YAML
// file, an optional .env file and the environment, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the deployment settings.
type Config struct {
	// SecretKey signs session tokens. When empty, a key is generated and
	// kept in the database.
	SecretKey     string `yaml:"secret_key"`
	DatabaseURL   string `yaml:"database_url"`
	CSRFEnabled   bool   `yaml:"csrf_enabled"`
	Addr          string `yaml:"addr"`
	LogPath       string `yaml:"log_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	AdminEmail    string `yaml:"admin_email"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DatabaseURL: "sredstva.sqlite3",
		CSRFEnabled: true,
		Addr:        ":8080",
		AdminEmail:  "admin@localhost",
	}
}

// Load builds the configuration. configPath names a YAML file and may be
// empty. envFile names a dotenv file; a missing one is ignored.
func Load(configPath, envFile string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading %s: %w", envFile, err)
		default:
			dotenv = vars
		}
	}

	getenv := func(key, fallback string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		if val := dotenv[key]; val != "" {
			return val
		}
		return fallback
	}

	cfg.SecretKey = getenv("SECRET_KEY", cfg.SecretKey)
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.Addr = getenv("ADDR", cfg.Addr)
	cfg.LogPath = getenv("LOG_PATH", cfg.LogPath)
	cfg.RedisAddr = getenv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getenv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.AdminEmail = getenv("ADMIN_EMAIL", cfg.AdminEmail)

	if val := getenv("CSRF_ENABLED", ""); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return cfg, fmt.Errorf("CSRF_ENABLED: invalid boolean %q", val)
		}
		cfg.CSRFEnabled = enabled
	}

	return cfg, cfg.Validate()
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url is required")
	}
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	return nil
}
