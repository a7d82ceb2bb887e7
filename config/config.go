package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP API configuration
	ListenAddr string

	// Settlement configuration
	AdminIdentity      string   // identity allowed to initialize and change fees
	OperatorIdentities []string // identities allowed to resolve and void games
	DefaultFeeBps      int64    // house fee in basis points applied at initialization

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ListenAddr:    ":8080",
		AdminIdentity: os.Getenv("ADMIN_IDENTITY"),

		// Settlement defaults
		DefaultFeeBps: 250, // 2.5% house fee default

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		config.ListenAddr = addr
	}
	if bps := os.Getenv("DEFAULT_FEE_BPS"); bps != "" {
		if parsedBps, err := strconv.ParseInt(bps, 10, 64); err == nil {
			config.DefaultFeeBps = parsedBps
		}
	}

	// Parse operator identities
	if operators := os.Getenv("OPERATOR_IDENTITIES"); operators != "" {
		for _, id := range strings.Split(operators, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				config.OperatorIdentities = append(config.OperatorIdentities, id)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminIdentity == "" {
			return nil, fmt.Errorf("ADMIN_IDENTITY is required")
		}
	}

	return config, nil
}
