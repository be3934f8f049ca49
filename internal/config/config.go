package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	MongoURI string
	MongoDB  string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Derivation
	UpcomingWindowDays int

	// Rate limiting on write endpoints
	RateLimitPerMinute int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "ledgerly"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		UpcomingWindowDays: getEnvInt("UPCOMING_WINDOW_DAYS", 7),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate Mongo URI
	if c.MongoURI == "" {
		errors = append(errors, "Mongo URI cannot be empty")
	} else if parsedURL, err := url.Parse(c.MongoURI); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Mongo URI '%s': %v", c.MongoURI, err))
	} else if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
		errors = append(errors, fmt.Sprintf("invalid Mongo URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURL.Scheme))
	}

	if c.MongoDB == "" {
		errors = append(errors, "Mongo database name cannot be empty")
	}

	// Validate auth configuration
	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be provided")
	} else if len(c.JWTSecret) < 32 {
		errors = append(errors, fmt.Sprintf("JWT secret too short: %d bytes, must be at least 32", len(c.JWTSecret)))
	}

	if c.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	} else if c.JWTTTL > 30*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid JWT TTL %v: must be at most 30 days", c.JWTTTL))
	}

	// Validate derivation window
	if c.UpcomingWindowDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid upcoming window %d: must be at least 1 day", c.UpcomingWindowDays))
	} else if c.UpcomingWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid upcoming window %d: must be at most 365 days", c.UpcomingWindowDays))
	}

	// Validate rate limit
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
