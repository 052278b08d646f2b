package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls the limiter. The zero value disables limiting entirely.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig is one budget rule. Path supports three styles: exact
// ("/rank"), suffix ("*/rankings" matches "/jobs/{id}/rankings") and prefix
// ("/jobs/" matches anything below /jobs). Burst falls back to Limit when
// zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// ruleFor resolves path+method to a budget rule. Precedence is exact, then
// suffix, then prefix, then the configured default. The health check is
// always unlimited so probes never get throttled.
func (c *Config) ruleFor(path, method string) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	var suffix, prefix *EndpointConfig
	for i := range c.EndpointConfigs {
		r := &c.EndpointConfigs[i]
		if r.Method != method {
			continue
		}
		switch {
		case r.Path == path:
			return r
		case strings.HasPrefix(r.Path, "*") && strings.HasSuffix(path, r.Path[1:]):
			if suffix == nil {
				suffix = r
			}
		case strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path):
			if prefix == nil {
				prefix = r
			}
		}
	}
	if suffix != nil {
		return suffix
	}
	if prefix != nil {
		return prefix
	}

	window := c.DefaultWindow
	if window <= 0 {
		window = time.Minute
	}
	return &EndpointConfig{Limit: c.DefaultLimit, Window: window}
}

// LoadConfig reads the limiter configuration from RATE_LIMIT_* environment
// variables. Unset or unparseable values fall back to defaults.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       csvSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       csvSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the built-in budget tiers. Batch scoring is
// the most expensive thing the API does, so it sits at the bottom; auth gets
// a low ceiling to slow credential stuffing; reads ride the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Batch scoring, CPU bound.
		{Path: "/rank", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "*/rankings/stream", Method: "GET", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "*/rankings", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Single-pair scoring.
		{Path: "/match", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Writes.
		{Path: "/candidates", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/candidates/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/candidates/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		// Covers job updates, deletes and the persisted per-pair match.
		{Path: "/jobs/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Auth, brute-force protection.
		{Path: "/auth/", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// csvSet turns a comma-separated list into a membership set.
func csvSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}
