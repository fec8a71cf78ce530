// Package config содержит логику чтения конфигурации сервиса расчёта стоимости корзины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress      = "localhost:8080"
	defaultCatalogRefresh  = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress             string        `env:"RUN_ADDRESS"`
	DatabaseURI            string        `env:"DATABASE_URI"`
	CatalogRefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRefresh := cfg.CatalogRefreshInterval
	envShutdown := cfg.ShutdownTimeout

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory coupon catalog when empty")
	flag.DurationVar(&cfg.CatalogRefreshInterval, "i", defaultCatalogRefresh, "coupon catalog refresh interval, 0 disables")
	flag.DurationVar(&cfg.ShutdownTimeout, "t", defaultShutdownTimeout, "graceful shutdown timeout")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRefresh != 0 {
		cfg.CatalogRefreshInterval = envRefresh
	}
	if envShutdown != 0 {
		cfg.ShutdownTimeout = envShutdown
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	return cfg, nil
}
