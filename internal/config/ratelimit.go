package config

import "time"

// RateLimitConfig parameterizes the Redis token-bucket limiter that guards
// the public listing endpoints. Buckets are keyed per client IP and route.
type RateLimitConfig struct {
	Enabled        bool          // master switch
	Capacity       int           // bucket capacity (burst size)
	RefillTokens   int           // tokens added per refill interval
	RefillInterval time.Duration // how often tokens are refilled
	TTL            time.Duration // idle expiry of bucket state in Redis
	Prefix         string        // key namespace
}

// LoadRateLimitConfig builds a RateLimitConfig from environment variables,
// clamping nonsensical values so the limiter never divides by zero or
// expires state before the next refill can happen.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}
