package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Telemetry TelemetryConfig
	Catalogue CatalogueClientConfig
	Manager   ManagerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds a postgres connection string suitable for the pgx stdlib driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	Requests int // 0 disables rate limiting
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// CatalogueClientConfig configures how the manager app reaches the catalogue API.
type CatalogueClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	JWTSecret string
	ClientID  string
	Scopes    []string
	TokenTTL  time.Duration
}

type ManagerConfig struct {
	Port     string
	Username string
	Password string
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// Load reads configuration for the service named by serviceName
// ("catalogue-service" or "manager-app") from .env and the environment.
func Load(serviceName string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8081")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "selmag")
	viper.SetDefault("DB_PASSWORD", "selmag")
	viper.SetDefault("DB_DATABASE", "selmag")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 0)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8080")
	viper.SetDefault("OTEL_SERVICE_NAME", serviceName)
	viper.SetDefault("CATALOGUE_BASE_URL", "http://localhost:8081")
	viper.SetDefault("CATALOGUE_TIMEOUT", "5s")
	viper.SetDefault("CATALOGUE_CLIENT_ID", "manager-app")
	viper.SetDefault("CATALOGUE_SCOPES", "view_catalogue edit_catalogue")
	viper.SetDefault("CATALOGUE_TOKEN_TTL", "15m")
	viper.SetDefault("MANAGER_PORT", "8080")
	viper.SetDefault("MANAGER_USERNAME", "manager")

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  viper.GetString("OTEL_SERVICE_NAME"),
		},
		Catalogue: CatalogueClientConfig{
			BaseURL:   strings.TrimRight(viper.GetString("CATALOGUE_BASE_URL"), "/"),
			Timeout:   viper.GetDuration("CATALOGUE_TIMEOUT"),
			JWTSecret: viper.GetString("CATALOGUE_JWT_SECRET"),
			ClientID:  viper.GetString("CATALOGUE_CLIENT_ID"),
			Scopes:    strings.Fields(viper.GetString("CATALOGUE_SCOPES")),
			TokenTTL:  viper.GetDuration("CATALOGUE_TOKEN_TTL"),
		},
		Manager: ManagerConfig{
			Port:     viper.GetString("MANAGER_PORT"),
			Username: viper.GetString("MANAGER_USERNAME"),
			Password: viper.GetString("MANAGER_PASSWORD"),
		},
	}
}

func splitList(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
