package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port            int
	DatabasePath    string
	RedisAddr       string
	RedisDB         int
	ProviderBaseUrl string
	ProviderApiKey  string
	ProviderRPS     float64
}

func Load() (Config, error) {
	cfg := Config{
		Port:            8080,
		DatabasePath:    "data/reference.db",
		ProviderBaseUrl: os.Getenv("PROVIDER_BASE_URL"),
		ProviderApiKey:  os.Getenv("PROVIDER_API_KEY"),
		ProviderRPS:     5,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %w", err)
		}

		cfg.Port = port
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	// an empty REDIS_ADDR disables both caches
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
		}

		cfg.RedisDB = db
	}

	if v := os.Getenv("PROVIDER_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PROVIDER_RPS: %w", err)
		}

		cfg.ProviderRPS = rps
	}

	if cfg.ProviderBaseUrl == "" {
		return Config{}, fmt.Errorf("PROVIDER_BASE_URL is required")
	}

	return cfg, nil
}
