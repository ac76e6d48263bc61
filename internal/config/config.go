package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Addr     string
	LogLevel string

	// DataDir holds the JSON collection files. With DBDSN set the games
	// seed is still read from here.
	DataDir string
	DBDSN   string

	CORSOrigins     []string
	LegacyPasswords bool
	TrustProxy      bool
}

// Load seeds the environment from the dotenv file named by APP_DOTENV (default
// .env) and then reads the configuration from it.
func Load() (Config, error) {
	path := os.Getenv("APP_DOTENV")
	if path == "" {
		path = ".env"
	}
	if err := loadDotEnvFile(path, os.Setenv, os.Getenv); err != nil {
		return Config{}, err
	}
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:      getenv("APP_ENV"),
		Addr:     getenv("APP_ADDR"),
		DBDSN:    getenv("APP_DB_DSN"),
		LogLevel: strings.ToLower(strings.TrimSpace(getenv("APP_LOG_LEVEL"))),
		DataDir:  strings.TrimSpace(getenv("APP_DATA_DIR")),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return Config{}, errors.New("APP_LOG_LEVEL: must be one of debug, info, warn, error")
	}

	cfg.LegacyPasswords = true
	if raw := strings.TrimSpace(getenv("APP_LEGACY_PASSWORDS")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_LEGACY_PASSWORDS: %w", err)
		}
		cfg.LegacyPasswords = v
	}

	if raw := strings.TrimSpace(getenv("APP_TRUST_PROXY")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_TRUST_PROXY: %w", err)
		}
		cfg.TrustProxy = v
	}

	cfg.CORSOrigins = parseCSV(getenv("APP_CORS_ORIGINS"))

	if cfg.IsProd() {
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.CORSOrigins) == 0 {
			return Config{}, errors.New("APP_CORS_ORIGINS: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// loadDotEnvFile copies entries from path into the environment. Variables that
// are already set win, and empty values are skipped. A missing file is not an
// error.
func loadDotEnvFile(path string, setenv func(string, string) error, getenv func(string) string) error {
	entries, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for k, v := range entries {
		if v == "" || getenv(k) != "" {
			continue
		}
		if err := setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

func parseCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
