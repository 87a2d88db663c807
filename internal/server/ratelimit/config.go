package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/brand-compiler/internal/config"
)

// CopyPath is the endpoint that calls the language model.
const CopyPath = "/v1/copy"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key groups requests sharing one bucket. Prefix configurations share a
// bucket across every path they match.
func (e *EndpointConfig) key(path string) string {
	if e.Path == "" {
		return path
	}
	return e.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig is used when no configuration is supplied.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(60),
	}
}

// NewConfig builds limiter settings from application configuration.
func NewConfig(cfg config.RateLimitConfig) *Config {
	c := DefaultConfig()
	c.Enabled = cfg.Enabled
	c.DefaultLimit = cfg.PerMinute
	c.Whitelist = parseIPList(cfg.Whitelist)
	c.Blacklist = parseIPList(cfg.Blacklist)
	c.EndpointConfigs = DefaultEndpointConfigs(cfg.CopyPerHour)
	return c
}

// DefaultEndpointConfigs returns the endpoint specific limits. Everything
// else uses the default per-minute limit.
func DefaultEndpointConfigs(copyPerHour int) []EndpointConfig {
	return []EndpointConfig{
		{Path: CopyPath, Method: "POST", Limit: copyPerHour, Window: time.Hour, Burst: min(copyPerHour, 5)},
	}
}

// parseIPList turns a list of addresses into a set, skipping blanks.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
