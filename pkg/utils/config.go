package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

// RedisConfig is optional; an empty Addr disables the booking cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig holds the bcrypt hash of the API key guarding the booking routes.
// An empty hash leaves the routes open.
type SecurityConfig struct {
	APIKeyHash string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func LoadConfig() (*Config, error) {
	return loadConfigFrom(".env")
}

func loadConfigFrom(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "lawn-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// .env is optional, container deployments pass plain env vars
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASS"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Security: SecurityConfig{
			APIKeyHash: v.GetString("API_KEY_HASH"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
