// Package config loads resolver settings from environment variables, with
// defaults baked in and validated before use.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log      LoggingConfig  `koanf:"log" validate:"required"`
	Resolver ResolverConfig `koanf:"resolver" validate:"required"`
}

// LoggingConfig configures the package-level logger.
type LoggingConfig struct {
	// Level defines the logging level: "debug", "info", "warn", or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// ResolverConfig configures the iterative resolver and its cache.
type ResolverConfig struct {
	// Timeout is the per-query receive deadline, as a Go duration string
	// (e.g. "3s"). default: 3s
	Timeout string `koanf:"timeout" validate:"required,duration"`

	// MaxDepth caps the combined recursion depth of CNAME chasing and
	// NS-name sub-resolution. default: 16
	MaxDepth int `koanf:"depth" validate:"required,gte=1,lte=64"`

	// CacheSize is the number of (name, qtype) entries the TTL-LRU cache
	// holds. default: 512
	CacheSize int `koanf:"cachesize" validate:"required,gte=1"`

	// Root overrides the seed nameserver list when non-empty; empty means
	// "use the resolver's built-in DefaultRootServers". Set via
	// DNS_RESOLVER_ROOT as a space- or comma-separated list of IPs.
	Root []string `koanf:"root" validate:"omitempty,dive,ip"`
}

// TimeoutDuration parses Timeout, which Load has already validated as a
// well-formed duration string.
func (r ResolverConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(r.Timeout)
	return d
}

// DEFAULT_APP_CONFIG defines the default application configuration,
// overridden by DNS_-prefixed environment variables in Load.
var DEFAULT_APP_CONFIG = AppConfig{
	Env: "prod",
	Log: LoggingConfig{
		Level: "info",
	},
	Resolver: ResolverConfig{
		Timeout:   "3s",
		MaxDepth:  16,
		CacheSize: 512,
		Root:      nil,
	},
}

// validDuration validates that a field parses as a Go duration string.
func validDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// envLoader loads environment variables with the prefix "DNS_", lowercasing
// keys, replacing "_" with "." for nested fields, and splitting
// space/comma-separated values into slices.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "DNS_")), "_", ".")
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into k via the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "duration" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("duration", validDuration)
}

// Load parses environment variables and returns a validated AppConfig.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
