package config

import (
	"fmt"
	"os"
	"time"
)

// SessionTokenConfig holds configuration for signing session tokens.
type SessionTokenConfig struct {
	Secret string
	TTL    time.Duration
}

// NewSessionTokenConfig reads JWT_SECRET (required) and uses ttl as the
// token lifetime, which should match the session idle lifetime.
func NewSessionTokenConfig(ttl time.Duration) (*SessionTokenConfig, error) {
	cfg := &SessionTokenConfig{
		Secret: os.Getenv("JWT_SECRET"),
		TTL:    ttl,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *SessionTokenConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("session token lifetime must be at least 1 minute, got: %s", c.TTL)
	}
	return nil
}
