package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		MongoURI:           "mongodb://localhost:27017",
		MongoDB:            "ledgerly",
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		JWTTTL:             24 * time.Hour,
		UpcomingWindowDays: 7,
		RateLimitPerMinute: 60,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty Mongo URI",
			mutate:      func(c *Config) { c.MongoURI = "" },
			wantErr:     true,
			errorString: "Mongo URI cannot be empty",
		},
		{
			name:        "invalid Mongo URI",
			mutate:      func(c *Config) { c.MongoURI = "://invalid-url" },
			wantErr:     true,
			errorString: "invalid Mongo URI",
		},
		{
			name:        "invalid Mongo URI scheme",
			mutate:      func(c *Config) { c.MongoURI = "http://localhost:27017" },
			wantErr:     true,
			errorString: "invalid Mongo URI scheme 'http': must be 'mongodb' or 'mongodb+srv'",
		},
		{
			name:    "srv scheme is accepted",
			mutate:  func(c *Config) { c.MongoURI = "mongodb+srv://cluster0.example.net" },
			wantErr: false,
		},
		{
			name:        "empty database name",
			mutate:      func(c *Config) { c.MongoDB = "" },
			wantErr:     true,
			errorString: "Mongo database name cannot be empty",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT_SECRET must be provided",
		},
		{
			name:        "short JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "too-short" },
			wantErr:     true,
			errorString: "JWT secret too short: 9 bytes, must be at least 32",
		},
		{
			name:        "JWT TTL too short",
			mutate:      func(c *Config) { c.JWTTTL = 30 * time.Second },
			wantErr:     true,
			errorString: "invalid JWT TTL 30s: must be at least 1 minute",
		},
		{
			name:        "JWT TTL too long",
			mutate:      func(c *Config) { c.JWTTTL = 31 * 24 * time.Hour },
			wantErr:     true,
			errorString: "must be at most 30 days",
		},
		{
			name:        "upcoming window too small",
			mutate:      func(c *Config) { c.UpcomingWindowDays = 0 },
			wantErr:     true,
			errorString: "invalid upcoming window 0: must be at least 1 day",
		},
		{
			name:        "upcoming window too large",
			mutate:      func(c *Config) { c.UpcomingWindowDays = 400 },
			wantErr:     true,
			errorString: "invalid upcoming window 400: must be at most 365 days",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1 request per minute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalVars := map[string]string{
		"PORT":                  os.Getenv("PORT"),
		"MONGO_URI":             os.Getenv("MONGO_URI"),
		"MONGO_DB":              os.Getenv("MONGO_DB"),
		"JWT_SECRET":            os.Getenv("JWT_SECRET"),
		"JWT_TTL":               os.Getenv("JWT_TTL"),
		"UPCOMING_WINDOW_DAYS":  os.Getenv("UPCOMING_WINDOW_DAYS"),
		"RATE_LIMIT_PER_MINUTE": os.Getenv("RATE_LIMIT_PER_MINUTE"),
	}

	// Clean environment
	for key := range originalVars {
		os.Unsetenv(key)
	}

	// Restore env vars at end of test
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.MongoURI != "mongodb://localhost:27017" {
			t.Errorf("Load() MongoURI = %v, want mongodb://localhost:27017", cfg.MongoURI)
		}
		if cfg.MongoDB != "ledgerly" {
			t.Errorf("Load() MongoDB = %v, want ledgerly", cfg.MongoDB)
		}
		if cfg.JWTTTL != 24*time.Hour {
			t.Errorf("Load() JWTTTL = %v, want 24h", cfg.JWTTTL)
		}
		if cfg.UpcomingWindowDays != 7 {
			t.Errorf("Load() UpcomingWindowDays = %v, want 7", cfg.UpcomingWindowDays)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60", cfg.RateLimitPerMinute)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("MONGO_URI", "mongodb://db.internal:27017")
		os.Setenv("MONGO_DB", "finance")
		os.Setenv("JWT_TTL", "45m")
		os.Setenv("UPCOMING_WINDOW_DAYS", "14")
		os.Setenv("RATE_LIMIT_PER_MINUTE", "120")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.MongoURI != "mongodb://db.internal:27017" {
			t.Errorf("Load() MongoURI = %v, want mongodb://db.internal:27017", cfg.MongoURI)
		}
		if cfg.MongoDB != "finance" {
			t.Errorf("Load() MongoDB = %v, want finance", cfg.MongoDB)
		}
		if cfg.JWTTTL != 45*time.Minute {
			t.Errorf("Load() JWTTTL = %v, want 45m", cfg.JWTTTL)
		}
		if cfg.UpcomingWindowDays != 14 {
			t.Errorf("Load() UpcomingWindowDays = %v, want 14", cfg.UpcomingWindowDays)
		}
		if cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 120", cfg.RateLimitPerMinute)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("JWT_TTL", "invalid")
		os.Setenv("UPCOMING_WINDOW_DAYS", "invalid")

		cfg := Load()

		if cfg.JWTTTL != 24*time.Hour {
			t.Errorf("Load() JWTTTL = %v, want 24h (default for invalid input)", cfg.JWTTTL)
		}
		if cfg.UpcomingWindowDays != 7 {
			t.Errorf("Load() UpcomingWindowDays = %v, want 7 (default for invalid input)", cfg.UpcomingWindowDays)
		}
	})
}
