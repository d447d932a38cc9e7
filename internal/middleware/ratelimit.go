package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"printstudio/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills the bucket in whole intervals, takes one token if it can and
// returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)
	return { allowed, tokens, retry_after_ms }
`)

// RateLimit applies a per client, per route token bucket stored in Redis. A nil client
// disables it, and Redis failures let the request through.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *slog.Logger) fiber.Handler {
	if rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	// The bucket is full again after capacity intervals; keep the key a little longer.
	ttl := int64((time.Duration(cfg.Capacity+1) * cfg.RefillInterval) / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	return func(c *fiber.Ctx) error {
		key := RateKey(cfg.Prefix, c.IP(), c.Method(), c.Route().Path)
		vals, err := tokenBucketScript.Run(c.UserContext(), rdb, []string{key},
			time.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillInterval.Milliseconds(),
			ttl,
		).Int64Slice()
		if err != nil || len(vals) != 3 {
			log.Warn("rate limiter unavailable", "key", key, "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
		if vals[0] != 1 {
			secs := int(math.Ceil(float64(vals[2]) / 1000.0))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Too many requests",
			})
		}
		return c.Next()
	}
}

// RateKey builds the Redis key of one bucket.
func RateKey(prefix, ip, method, route string) string {
	if ip == "" {
		ip = "unknown"
	}
	if prefix == "" {
		prefix = "rl"
	}
	return strings.Join([]string{prefix, "ip", ip, "route", fmt.Sprintf("%s %s", method, route)}, ":")
}
