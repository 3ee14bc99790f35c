package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, RateFeedDatabase, cfg.RateFeed.Kind)
	assert.Equal(t, 30*time.Second, cfg.RateFeed.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.RateFeed.FetchTimeout)
	assert.Equal(t, "95", cfg.Pricing.FallbackRate)
	assert.Equal(t, 24*time.Hour, cfg.Pricing.CacheTTL)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("RATE_FEED_KIND", "HTTP")
	t.Setenv("RATE_FEED_URL", "http://rates.local/gold")
	t.Setenv("RATE_REFRESH_INTERVAL", "45s")
	t.Setenv("PRICING_FALLBACK_RATE", "0")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, RateFeedHTTP, cfg.RateFeed.Kind)
	assert.Equal(t, "http://rates.local/gold", cfg.RateFeed.URL)
	assert.Equal(t, 45*time.Second, cfg.RateFeed.RefreshInterval)
	assert.Equal(t, "0", cfg.Pricing.FallbackRate)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}
