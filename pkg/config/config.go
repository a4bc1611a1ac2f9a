package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the verifier service.
type Config struct {
	// Server Configuration
	ListenAddr  string
	MetricsAddr string

	// Router Configuration
	OwnerAddress string // hex EVM-style address; the only caller allowed to mutate the router

	// Groth16 Verifier Configuration
	Groth16Selector string // hex-encoded 4-byte selector
	Groth16Address  string // hex address the router binds the Groth16 backend to

	// Mock Verifier Configuration
	MockVerifierEnabled bool   // enable the dev-mode mock backend; never set in production
	MockSelector        string // hex-encoded 4-byte selector
	MockAddress         string // hex address the router binds the mock backend to

	// LaneRacer Configuration
	LaneRacerImageID string // hex-encoded 32-byte guest program image ID

	// Lease settings (storage hygiene only). VerifierLeaseWindow sets the
	// sweep interval in cmd/verifierd (window/90); the router's own lease
	// lengths are fixed constants in pkg/router, and VerifierLeaseThreshold
	// is not read anywhere.
	VerifierLeaseWindow    time.Duration
	VerifierLeaseThreshold time.Duration

	LogLevel string
}

// Load reads configuration from environment variables.
//
// SECURITY: Required variables have no defaults and must be explicitly
// set. Call Validate() after Load() to ensure all required configuration
// is present.
func Load() (*Config, error) {
	cfg := &Config{
		// Server Configuration - safe defaults
		ListenAddr:  getEnv("API_HOST", "0.0.0.0") + ":" + getEnv("API_PORT", "8080"),
		MetricsAddr: getEnv("API_HOST", "0.0.0.0") + ":" + getEnv("METRICS_PORT", "9090"),

		// Router Configuration - REQUIRED, no default for production security
		OwnerAddress: getEnv("ROUTER_OWNER_ADDRESS", ""),

		// Groth16 Verifier Configuration - REQUIRED
		Groth16Selector: getEnv("GROTH16_SELECTOR", ""),
		Groth16Address:  getEnv("GROTH16_VERIFIER_ADDRESS", ""),

		// Mock Verifier Configuration - dev-mode only, disabled by default
		MockVerifierEnabled: getEnvBool("MOCK_VERIFIER_ENABLED", false),
		MockSelector:        getEnv("MOCK_SELECTOR", ""),
		MockAddress:         getEnv("MOCK_VERIFIER_ADDRESS", ""),

		// LaneRacer Configuration - REQUIRED
		LaneRacerImageID: getEnv("LANE_RACER_IMAGE_ID", ""),

		// Router TTL policy - matches the 90-day on-chain lease window
		VerifierLeaseWindow:    getEnvDuration("VERIFIER_LEASE_WINDOW", 90*24*time.Hour),
		VerifierLeaseThreshold: getEnvDuration("VERIFIER_LEASE_THRESHOLD", 89*24*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
// This must be called after Load() before starting the service.
func (c *Config) Validate() error {
	var errs []string

	if c.OwnerAddress == "" {
		errs = append(errs, "ROUTER_OWNER_ADDRESS is required but not set")
	}
	if c.Groth16Selector == "" {
		errs = append(errs, "GROTH16_SELECTOR is required but not set")
	}
	if c.Groth16Address == "" {
		errs = append(errs, "GROTH16_VERIFIER_ADDRESS is required but not set")
	}
	if c.MockVerifierEnabled {
		if c.MockSelector == "" {
			errs = append(errs, "MOCK_SELECTOR is required when MOCK_VERIFIER_ENABLED=true")
		}
		if c.MockAddress == "" {
			errs = append(errs, "MOCK_VERIFIER_ADDRESS is required when MOCK_VERIFIER_ENABLED=true")
		}
	}
	if c.LaneRacerImageID == "" {
		errs = append(errs, "LANE_RACER_IMAGE_ID is required but not set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
