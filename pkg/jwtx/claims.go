package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session claims minted by the hosted auth provider. Only
// the fields we read are modelled; everything else in the token is ignored.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user, absent for phone-only accounts.
	Email string `json:"email,omitempty"`

	// Role is the provider's database role ("authenticated", "anon"). It is
	// not the back-office role, which lives on the profile.
	Role string `json:"role,omitempty"`

	SessionID string `json:"session_id,omitempty"`

	// AAL is the authenticator assurance level ("aal1", "aal2").
	AAL string `json:"aal,omitempty"`
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry checks exp and nbf against now, allowing leeway either way
// for clock skew. A token without exp is rejected.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
