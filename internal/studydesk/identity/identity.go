// Package identity resolves session credentials issued by the hosted auth
// provider into a subject. It never issues or refreshes tokens.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidToken is returned for any credential the provider does not
// accept: bad signature, expired, revoked or unknown.
var ErrInvalidToken = errors.New("identity: invalid token")

// User is what the provider vouches for.
type User struct {
	ID        string
	Email     string
	SessionID string
}

// SessionKey identifies the login session for idle tracking. Providers that
// do not expose a session id fall back to a digest of the token, which
// changes on every sign-in just like a session id would.
func (u User) SessionKey(token string) string {
	if u.SessionID != "" {
		return "sid:" + u.SessionID
	}
	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:16])
}

type Provider interface {
	ResolveUser(ctx context.Context, token string) (User, error)
}
