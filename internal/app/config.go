package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/verbstore/backoffice/internal/domain/order"
)

// Config holds the complete application configuration, loadable from
// environment variables (BACKOFFICE_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string        `usage:"PostgreSQL connection URL (BACKOFFICE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL  string        `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com/images)" flag:"image-base-url"`
	TokenPepper   string        `usage:"HMAC pepper for access token hashing (BACKOFFICE_TOKEN_PEPPER)" flag:"token-pepper"`
	WalkInEmail   string        `default:"walkin_colleague@verbs.com" usage:"Email of the seeded walk-in colleague account" flag:"walk-in-email"`
	ResetTokenTTL time.Duration `default:"10h" usage:"Password reset token lifetime" flag:"reset-token-ttl"`
	Taxes         []string      `default:"VAT:15" usage:"Applied tax rules as NAME:PERCENT pairs"`
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BACKOFFICE",
		Files:     []string{"config.yaml", "/etc/backoffice/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set BACKOFFICE_DATABASE_URL or DATABASE_URL")
	}
	if _, err := cfg.TaxConfig(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TaxConfig parses the NAME:PERCENT tax pairs into the rule set applied to
// every order.
func (c *Config) TaxConfig() (order.TaxConfig, error) {
	rules := make([]order.TaxRule, 0, len(c.Taxes))
	for _, pair := range c.Taxes {
		name, rate, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return order.TaxConfig{}, errors.Errorf("invalid tax rule %q: want NAME:PERCENT", pair)
		}
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return order.TaxConfig{}, errors.Wrapf(err, "invalid tax rate in %q", pair)
		}
		rules = append(rules, order.TaxRule{Name: name, Rate: d})
	}
	return order.TaxConfig{Rules: rules}, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's BACKOFFICE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
