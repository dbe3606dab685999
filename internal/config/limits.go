package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the response cache middleware that sits in
// front of the public browse endpoints (movie listing, show times, prices).
// When Enabled is false or no Redis client is configured, caching is a no-op.
type CacheConfig struct {
    Enabled      bool            // master switch
    Methods      map[string]bool // HTTP methods eligible for caching
    TTL          time.Duration   // lifetime of a cache entry
    Prefix       string          // key namespace in Redis
    MaxBodyBytes int             // responses larger than this are not cached
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults keep browse responses fresh enough for a seat map that changes
// on every booking.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 15*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

// RateLimitConfig defines the Redis token bucket applied to every route.
type RateLimitConfig struct {
    Enabled        bool          // master switch
    Capacity       int           // bucket capacity (burst)
    RefillTokens   int           // tokens added per interval
    RefillInterval time.Duration // refill cadence
    TTL            time.Duration // idle bucket expiry
    Prefix         string        // key namespace in Redis
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, clamping nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
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

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(envStr(k, "")) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := envStr(k, "")
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
