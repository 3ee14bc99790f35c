package config

import (
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
	RateFeed  RateFeedConfig
	Pricing   PricingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// RateFeed kinds
const (
	RateFeedDatabase = "database"
	RateFeedHTTP     = "http"
)

type RateFeedConfig struct {
	Kind            string
	URL             string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

type PricingConfig struct {
	FallbackRate string // decimal string; "0" disables the cold-start fallback
	CacheKey     string
	CacheTTL     time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads .env into the process environment, then resolves every key from
// the environment with defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_FEED_KIND", RateFeedDatabase)
	v.SetDefault("RATE_REFRESH_INTERVAL", "30s")
	v.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	v.SetDefault("PRICING_FALLBACK_RATE", "95")
	v.SetDefault("PRICING_RATE_CACHE_KEY", "karat-desk:rate:last_good")
	v.SetDefault("PRICING_RATE_CACHE_TTL", "24h")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateFeed: RateFeedConfig{
			Kind:            strings.ToLower(v.GetString("RATE_FEED_KIND")),
			URL:             v.GetString("RATE_FEED_URL"),
			RefreshInterval: v.GetDuration("RATE_REFRESH_INTERVAL"),
			FetchTimeout:    v.GetDuration("RATE_FETCH_TIMEOUT"),
		},
		Pricing: PricingConfig{
			FallbackRate: v.GetString("PRICING_FALLBACK_RATE"),
			CacheKey:     v.GetString("PRICING_RATE_CACHE_KEY"),
			CacheTTL:     v.GetDuration("PRICING_RATE_CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
