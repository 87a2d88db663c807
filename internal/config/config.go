// Package config provides layered configuration for the CLI and server:
// built-in defaults, an optional YAML file, BRANDC_ environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so server.port is
// read from BRANDC_SERVER_PORT.
const EnvPrefix = "BRANDC"

// Config is the fully resolved configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Log       LogConfig       `mapstructure:"log"`
	Registry  RegistryConfig  `mapstructure:"registry"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	CacheSize       int           `mapstructure:"cache_size" validate:"gte=1"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
}

// RateLimitConfig throttles requests per client. Copy generation calls a
// paid model and has its own hourly budget.
type RateLimitConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	PerMinute   int      `mapstructure:"per_minute" validate:"gte=0"`
	CopyPerHour int      `mapstructure:"copy_per_hour" validate:"gte=0"`
	Whitelist   []string `mapstructure:"whitelist" validate:"dive,ip"`
	Blacklist   []string `mapstructure:"blacklist" validate:"dive,ip"`
}

// DatabaseConfig configures persistence. An empty URL disables it.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// LLMConfig configures the copy generator. Model, when set, replaces the
// default model for the selected tier.
type LLMConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Tier            string  `mapstructure:"tier" validate:"oneof=lite standard advanced"`
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens" validate:"gte=256,lte=8192"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// RegistryConfig points at an optional directory of registry YAML files
// that replaces the embedded data.
type RegistryConfig struct {
	Dir string `mapstructure:"dir"`
}

var validate = validator.New()

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the conventional Gemini variable works without the prefix
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	return v
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cache_size", 512)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.per_minute", 600)
	v.SetDefault("ratelimit.copy_per_hour", 60)
	v.SetDefault("ratelimit.whitelist", []string{})
	v.SetDefault("ratelimit.blacklist", []string{})
	v.SetDefault("database.url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.tier", "standard")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("registry.dir", "")
}

// ReadFile merges a YAML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", keyFor(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return &Error{Message: strings.Join(msgs, "; "), Cause: err}
}

// keyFor maps a validator namespace such as Config.Server.CacheSize to the
// configuration key server.cachesize.
func keyFor(namespace string) string {
	return strings.ToLower(strings.TrimPrefix(namespace, "Config."))
}

// Error reports an invalid configuration
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
