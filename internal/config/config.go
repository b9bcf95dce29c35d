// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables (optionally seeded from a .env file). It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends for admin state.
const (
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
	BackendMemory   = "memory"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Where categories and products are persisted: "postgres", "valkey" or "memory".
	StoreBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	ValkeyPrefix   string

	// Optional YAML file describing the initial category tree.
	CategorySeedFile string

	// bcrypt hash of the admin API bearer token. Empty disables auth
	// outside production.
	AdminTokenHash string

	// Writes allowed per client per minute. 0 disables the limit.
	WriteRateLimit int

	// Reverse proxies whose X-Forwarded-For / X-Real-IP headers are
	// trusted when identifying clients. Empty trusts no one.
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Values from a .env file in the
// working directory are used for variables not already set. Returns an
// error if critical values are missing or invalid.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	valkeyDB, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("VALKEY_DB must be a number: %w", err)
	}

	writeLimit, err := strconv.Atoi(envOrDefault("WRITE_RATE_LIMIT", "60"))
	if err != nil || writeLimit < 0 {
		return nil, fmt.Errorf("WRITE_RATE_LIMIT must be a non-negative number (got %q)", os.Getenv("WRITE_RATE_LIMIT"))
	}

	proxies, err := parseProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend: envOrDefault("STORE_BACKEND", BackendPostgres),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "cheonwon"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "cheonwon"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyDB:       valkeyDB,
		ValkeyPrefix:   envOrDefault("VALKEY_PREFIX", "cheonwon:"),

		CategorySeedFile: os.Getenv("CATEGORY_SEED_FILE"),

		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		WriteRateLimit: writeLimit,
		TrustedProxies: proxies,
	}

	switch cfg.StoreBackend {
	case BackendPostgres, BackendValkey, BackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of postgres, valkey, memory (got %q)", cfg.StoreBackend)
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.StoreBackend == BackendMemory {
			return nil, fmt.Errorf("STORE_BACKEND=memory is not allowed in production")
		}
		if cfg.AdminTokenHash == "" {
			return nil, fmt.Errorf("ADMIN_TOKEN_HASH must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// parseProxies parses a comma-separated list of IPs and CIDR prefixes.
// A bare IP is a single-address prefix.
func parseProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid prefix %q: %w", item, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q: %w", item, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
