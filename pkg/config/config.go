// Package config resolves factorycalc settings from the environment and an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvLogLevel  = "FACTORYCALC_LOG_LEVEL"
	EnvFormat    = "FACTORYCALC_FORMAT"
	EnvCacheSize = "FACTORYCALC_CACHE_SIZE"
	EnvRecipes   = "FACTORYCALC_RECIPES"
)

// Defaults applied when a variable is unset or invalid.
const (
	DefaultLogLevel  = "info"
	DefaultFormat    = "text"
	DefaultCacheSize = 128
)

// Config holds process-wide settings. CLI flags default to these values.
type Config struct {
	LogLevel  string
	Format    string
	CacheSize int
	Recipes   string
}

// Load reads the given .env files (".env" when none are given) without
// overriding variables already present in the environment, then builds a
// Config. A missing .env file is not an error.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		LogLevel:  firstNonEmpty(strings.TrimSpace(os.Getenv(EnvLogLevel)), DefaultLogLevel),
		Format:    firstNonEmpty(strings.ToLower(strings.TrimSpace(os.Getenv(EnvFormat))), DefaultFormat),
		CacheSize: resolveCacheSize(),
		Recipes:   strings.TrimSpace(os.Getenv(EnvRecipes)),
	}
}

func resolveCacheSize() int {
	raw := strings.TrimSpace(os.Getenv(EnvCacheSize))
	if raw == "" {
		return DefaultCacheSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultCacheSize
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
