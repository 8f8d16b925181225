// Package config handles loading and validating the CLI configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rotekhq/shopware6-client/pkg/shopware"
)

// Config is the top-level configuration.
type Config struct {
	Shop      ShopConfig      `yaml:"shop"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ShopConfig defines the connection to one Shopware 6 shop.
type ShopConfig struct {
	AdminAPIURL      string `yaml:"admin_api_url"`
	StorefrontAPIURL string `yaml:"storefront_api_url"`

	// GrantType selects the admin API authentication:
	// "user_credentials" (admin user) or "resource_owner" (integration).
	GrantType string `yaml:"grant_type"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	StoreAPIAccessKey string `yaml:"store_api_access_key"`
}

// RateLimitConfig defines the client-side request throttle. A DailyLimit
// of zero disables the daily budget.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ClientConfig converts the shop section into the client configuration.
func (s *ShopConfig) ClientConfig() shopware.Config {
	return shopware.Config{
		AdminAPIURL:       s.AdminAPIURL,
		StorefrontAPIURL:  s.StorefrontAPIURL,
		GrantType:         s.GrantType,
		Username:          s.Username,
		Password:          s.Password,
		ClientID:          s.ClientID,
		ClientSecret:      s.ClientSecret,
		StoreAPIAccessKey: s.StoreAPIAccessKey,
	}
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content, so credentials can
	// stay out of the file itself.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Shop.GrantType == "" {
		cfg.Shop.GrantType = shopware.GrantUserCredentials
	}
	if cfg.RateLimit.PerSecond == 0 {
		cfg.RateLimit.PerSecond = 10.0
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Shop.AdminAPIURL == "" {
		errs = append(errs, fmt.Errorf("shop.admin_api_url is required"))
	}

	switch cfg.Shop.GrantType {
	case shopware.GrantUserCredentials:
		if cfg.Shop.Username == "" {
			errs = append(errs, fmt.Errorf("shop.username is required when grant_type is user_credentials"))
		}
		if cfg.Shop.Password == "" {
			errs = append(errs, fmt.Errorf("shop.password is required when grant_type is user_credentials"))
		}
	case shopware.GrantResourceOwner:
		if cfg.Shop.ClientID == "" {
			errs = append(errs, fmt.Errorf("shop.client_id is required when grant_type is resource_owner"))
		}
		if cfg.Shop.ClientSecret == "" {
			errs = append(errs, fmt.Errorf("shop.client_secret is required when grant_type is resource_owner"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"shop.grant_type must be one of: user_credentials, resource_owner (got %q)",
			cfg.Shop.GrantType,
		))
	}

	return errors.Join(errs...)
}
