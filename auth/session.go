package auth

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoMembership is returned by SessionClaims.Validate when the token does
// not name an account membership.
var ErrNoMembership = errors.New("auth: session has no account membership")

// SessionClaims are the claims of a front-end session token. The membership
// is the one whose permissions are evaluated for the request.
type SessionClaims struct {
	gojwt.RegisteredClaims
	AccountMembershipID string `json:"accountMembershipId"`
	ProjectID           string `json:"projectId,omitempty"`
}

// NewSessionClaims returns an empty claims value for parsing.
func NewSessionClaims() *SessionClaims { return &SessionClaims{} }

// Validate is called by the JWT parser after the registered claims pass.
func (c *SessionClaims) Validate() error {
	if c.AccountMembershipID == "" {
		return ErrNoMembership
	}
	return nil
}

// SetDefaults fills the time, issuer and audience claims left empty.
func (c *SessionClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}
