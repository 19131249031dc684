package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host                 string
	Port                 string
	User                 string
	Password             string
	Name                 string
	SSLMode              string
	MaxConnections       int
	MaxIdleConns         int
	ConnMaxLifetime      time.Duration
	MigrationsPath       string
	SeedsPath            string
	ConnectRetries       int
	ConnectRetryInterval time.Duration
}

type JWTConfig struct {
	Secret        []byte
	TokenDuration time.Duration
	Issuer        string
	Audience      string
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:                 getEnv("DB_HOST", "localhost"),
			Port:                 getEnv("DB_PORT", "5432"),
			User:                 getEnv("DB_USER", "banking_user"),
			Password:             getEnv("DB_PASSWORD", "banking_password"),
			Name:                 getEnv("DB_NAME", "banking_db"),
			SSLMode:              getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:       getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:         getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:      getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			MigrationsPath:       getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
			SeedsPath:            getEnv("DB_SEEDS_PATH", "db/seeds"),
			ConnectRetries:       getIntEnv("DB_CONNECT_RETRIES", 30),
			ConnectRetryInterval: getDurationEnv("DB_CONNECT_RETRY_INTERVAL", 2*time.Second),
		},
		JWT: JWTConfig{
			// Tokens are valid for 1 hour from issuance
			TokenDuration: getDurationEnv("JWT_TOKEN_DURATION", time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "banking-api"),
			Audience:      getEnv("JWT_AUDIENCE", "banking-api-clients"),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	var loadSecretErr error
	config.JWT.Secret, loadSecretErr = config.loadJWTSecret()
	if loadSecretErr != nil {
		log.Fatal("Failed to load JWT signing secret:", loadSecretErr)
	}

	return config
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadJWTSecret loads the HMAC signing secret for JWT tokens
// Priority order:
// 1. If JWT_SECRET is set, use it (works in all environments)
// 2. If production and the env var is missing, fail (production requires an explicit secret)
// 3. If development/testing and the env var is missing, generate a random secret (dev convenience)
func (c *Config) loadJWTSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret != "" {
		return []byte(secret), nil
	}

	if c.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set in production environments")
	}

	log.Println("Development environment: generating random JWT secret (set JWT_SECRET to persist tokens across restarts)")
	return GenerateRandomSecret()
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			log.Println("WARNING: CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*' (all origins). Consider setting specific origins for security.")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	return origins
}

// GenerateRandomSecret generates a 32-byte random HMAC secret
func GenerateRandomSecret() ([]byte, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate random secret: %w", err)
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return encoded, nil
}
