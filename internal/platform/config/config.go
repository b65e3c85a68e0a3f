// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Secrets, TTLs and the hash cost are handed to the hasher,
    token issuer, remember-me signer and session resolver via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// # Mail Drivers

const (
	MailDriverNone = "none"
	MailDriverSMTP = "smtp"
	MailDriverAMQP = "amqp"
)

// minSecretLength is the shortest accepted signing secret.
const minSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Stockroom server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// TrustProxyHeaders honours X-Real-IP / X-Forwarded-For for rate limiting
	// and logs. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// AppBaseURL is used to build absolute links in outgoing mail.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session store (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Signing secrets. SessionSecret signs the session cookie value,
	// RememberMeSecret signs the remember-me JWT.
	SessionSecret    string `env:"SESSION_SECRET,required,notEmpty"`
	RememberMeSecret string `env:"REMEMBER_ME_SECRET,required,notEmpty"`

	// Password hashing
	BcryptCost  int `env:"BCRYPT_COST"  envDefault:"12"`
	HashWorkers int `env:"HASH_WORKERS" envDefault:"0"`

	// Credential lifetimes
	SessionTTL    time.Duration `env:"SESSION_TTL"     envDefault:"24h"`
	RememberMeTTL time.Duration `env:"REMEMBER_ME_TTL" envDefault:"168h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`

	// Outgoing mail
	MailDriver     string `env:"MAIL_DRIVER"      envDefault:"none"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       string `env:"SMTP_PORT"        envDefault:"587"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPass       string `env:"SMTP_PASS"`
	SMTPFrom       string `env:"SMTP_FROM"`
	AMQPURL        string `env:"AMQP_URL"`
	AMQPExchange   string `env:"AMQP_EXCHANGE"    envDefault:"stockroom.mail"`
	AMQPRoutingKey string `env:"AMQP_ROUTING_KEY" envDefault:"password_reset"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.HashWorkers <= 0 {
		cfg.HashWorkers = runtime.NumCPU()
	}
	cfg.MailDriver = strings.ToLower(strings.TrimSpace(cfg.MailDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength))
	}
	if len(c.RememberMeSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("REMEMBER_ME_SECRET must be at least %d characters", minSecretLength))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.SessionTTL <= 0 || c.RememberMeTTL <= 0 || c.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL, REMEMBER_ME_TTL and RESET_TOKEN_TTL must be positive"))
	}

	switch c.MailDriver {
	case "", MailDriverNone:
	case MailDriverSMTP:
		if c.SMTPHost == "" || c.SMTPFrom == "" {
			errs = append(errs, errors.New("MAIL_DRIVER=smtp requires SMTP_HOST and SMTP_FROM"))
		}
	case MailDriverAMQP:
		if c.AMQPURL == "" {
			errs = append(errs, errors.New("MAIL_DRIVER=amqp requires AMQP_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
// Cookies are only flagged Secure in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
