package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names understood by the service
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTesting     = "testing"
)

// Defaults for the application keys
const (
	DefaultEnv       = EnvProduction
	DefaultModelPath = "models/modelo.pkl"
)

// DefaultEnvFiles are tried in order when Load is called without paths
var DefaultEnvFiles = []string{".env", "../.env"}

// Config holds all configuration for the application.
// It is built once at startup and must not be mutated afterwards.
type Config struct {
	// Application configuration
	App AppConfig

	// Server configuration
	Server ServerConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Log LogConfig

	// Database configuration (optional)
	Database DatabaseConfig
}

// AppConfig holds the application-level settings
type AppConfig struct {
	Env       string
	ModelPath string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	SwaggerEnabled    bool
	MetricsEnabled    bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	ConnTimeout time.Duration
}

// Load reads the given dotenv files (or DefaultEnvFiles) into the process
// environment and builds the configuration from it. Missing files are not
// an error. The returned slice lists the files that were actually loaded.
func Load(files ...string) (*Config, []string, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	var loaded []string
	for _, f := range files {
		// godotenv never overrides variables already present in the environment
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, loaded, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, loaded, nil
}

// FromEnv builds the configuration from the current process environment
func FromEnv() *Config {
	env := getEnv("FLASK_ENV", DefaultEnv)
	dev := env == EnvDevelopment

	defaultLevel, defaultFormat := "info", "json"
	if dev {
		defaultLevel = "debug"
	}
	if env != EnvProduction {
		defaultFormat = "text"
	}

	return &Config{
		App: AppConfig{
			Env:       env,
			ModelPath: getEnv("MODEL_PATH", DefaultModelPath),
		},
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", "8080"),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			ReadHeaderTimeout: getDurationEnv("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			SwaggerEnabled:    getBoolEnv("SWAGGER_ENABLED", true),
			MetricsEnabled:    getBoolEnv("METRICS_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "HEAD", "POST", "OPTIONS", "PUT", "PATCH", "DELETE"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getIntEnv("CORS_MAX_AGE", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", defaultLevel),
			Format: getEnv("LOG_FORMAT", defaultFormat),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", ""),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "postgres"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getInt32Env("DB_MAX_CONNS", 5),
			MinConns:    getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime: getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout: getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
		},
	}
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be a number between 1 and 65535, got %q", c.Server.Port))
	}

	timeouts := map[string]time.Duration{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_READ_HEADER_TIMEOUT": c.Server.ReadHeaderTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"SERVER_IDLE_TIMEOUT":        c.Server.IdleTimeout,
		"SERVER_SHUTDOWN_TIMEOUT":    c.Server.ShutdownTimeout,
	}
	for key, d := range timeouts {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", key, d))
		}
	}

	if c.Database.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// IsDatabaseConfigured checks if a database connection was requested
func (c *Config) IsDatabaseConfigured() bool {
	return c.Database.URL != "" || c.Database.Host != ""
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.Database.ConnTimeout.Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
