package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Store      StoreConfig
	Simulation SimulationConfig
	Engine     EngineConfig
	Env        string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StoreConfig selects the availability persistence backend
type StoreConfig struct {
	// Driver is one of "memory", "badger" or "redis"
	Driver     string
	BadgerPath string
}

// SimulationConfig holds the availability simulation schedule
type SimulationConfig struct {
	Enabled          bool
	StatusInterval   time.Duration
	PresenceInterval time.Duration
	// Seed makes the random walk reproducible when non-zero
	Seed int64
}

// EngineConfig holds recommendation engine tuning
type EngineConfig struct {
	MaxResults int
	RosterPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "memory"),
			BadgerPath: getEnv("BADGER_PATH", "./data/availability"),
		},
		Simulation: SimulationConfig{
			Enabled:          getEnvAsBool("SIMULATION_ENABLED", true),
			StatusInterval:   getEnvAsDuration("SIMULATION_STATUS_INTERVAL", 2*time.Minute),
			PresenceInterval: getEnvAsDuration("SIMULATION_PRESENCE_INTERVAL", 30*time.Second),
			Seed:             int64(getEnvAsInt("SIMULATION_SEED", 0)),
		},
		Engine: EngineConfig{
			MaxResults: getEnvAsInt("ENGINE_MAX_RESULTS", 5),
			RosterPath: getEnv("ROSTER_PATH", ""),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
