// Package jwt provides a generic JWT token service.
//
// The service is parameterized by a claims type T, typically a struct that
// embeds jwt.RegisteredClaims:
//
//	svc, err := jwt.NewService(cfg, auth.NewSessionClaims)
//	claims, err := svc.Parse(tokenString)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoSigningKey is returned by Generate when only a public key is configured.
var ErrNoSigningKey = errors.New("jwt: no signing key configured")

// Service provides JWT token generation and parsing for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	keys     keys
	newEmpty func() T
}

// NewService creates a new JWT service. newEmpty returns a fresh T for
// parsing into.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	k, err := cfg.loadKeys()
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: *cfg, keys: k, newEmpty: newEmpty}, nil
}

// Generate signs claims. Claims types with a SetDefaults method get their
// issued-at, expiry, issuer and audience filled first.
func (s *Service[T]) Generate(claims T) (string, error) {
	if s.keys.sign == nil {
		return "", ErrNoSigningKey
	}
	if setter, ok := any(claims).(interface {
		SetDefaults(time.Time, time.Duration, string, []string)
	}); ok {
		setter.SetDefaults(time.Now(), s.cfg.AccessTokenTTL, s.cfg.Issuer, s.cfg.Audience)
	}
	token := gojwt.NewWithClaims(signingMethods[s.cfg.Method], claims)
	signed, err := token.SignedString(s.keys.sign)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates and parses a token string into claims of type T. It
// verifies the signature and expiry, plus issuer and audience when
// configured.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

// ValidatorFunc bridges the typed service to middleware that only needs
// claims as any.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		return s.Parse(token)
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if s.keys.verify == nil {
		return nil, errors.New("jwt: no verification key configured")
	}
	return s.keys.verify, nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{string(s.cfg.Method)}),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.cfg.Leeway))
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}

// IsExpired reports whether err was caused by an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, gojwt.ErrTokenExpired)
}
