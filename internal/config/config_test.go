package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientUnreachableReturnsNil(t *testing.T) {
	// port 1 refuses immediately, so the ping fails fast and the
	// half-built client must be torn down rather than leaked.
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")

	assert.Nil(t, NewRedisClient())
}

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 5*time.Second, cfg.TTL, "TTL floored to five refill intervals")
}

func TestParseMethodsNormalizes(t *testing.T) {
	m := parseMethods(" get , POST ,")
	assert.True(t, m["GET"])
	assert.True(t, m["POST"])
	assert.Len(t, m, 2)
}
