package auth

import (
	"fmt"

	"github.com/kbukum/accessmatrix/auth/jwt"
)

// Config holds authentication configuration.
type Config struct {
	// Enabled controls whether session tokens are required.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// JWT configures session token verification.
	JWT jwt.Config `mapstructure:"jwt" yaml:"jwt"`
}

// ApplyDefaults sets defaults on the JWT configuration.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

// Validate checks the JWT configuration when authentication is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup log.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	s := fmt.Sprintf("JWT(%s)", c.JWT.Method)
	if c.JWT.Issuer != "" {
		s += " issuer=" + c.JWT.Issuer
	}
	return s
}

// NewSessionValidator builds the validator for session tokens.
func NewSessionValidator(cfg *Config) (TokenValidator, error) {
	svc, err := jwt.NewService(&cfg.JWT, NewSessionClaims)
	if err != nil {
		return nil, err
	}
	return TokenValidatorFunc(svc.ValidatorFunc()), nil
}
