package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, tests only.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrMissingKID  = errors.New("jwtx: missing kid")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

type verifier struct {
	methods []string
	keyFunc jwt.Keyfunc
	opts    VerifyOptions
}

// NewHS256Verifier verifies tokens signed with the provider's shared secret.
func NewHS256Verifier(secret []byte, opts VerifyOptions) Verifier {
	return &verifier{
		methods: []string{AlgorithmHS256},
		keyFunc: func(*jwt.Token) (any, error) { return secret, nil },
		opts:    opts,
	}
}

// NewKeySetVerifier verifies asymmetric tokens (RS256, ES256, EdDSA) against
// the public keys in keys. The "kid" header selects the key and the key type
// must agree with the token's alg.
func NewKeySetVerifier(keys *KeySet, opts VerifyOptions) Verifier {
	return &verifier{
		methods: []string{AlgorithmRS256, AlgorithmES256, AlgorithmEdDSA},
		keyFunc: func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, ErrMissingKID
			}

			pub, err := keys.Get(kid)
			if err != nil {
				return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
			}

			var ok bool
			switch t.Method.Alg() {
			case AlgorithmRS256:
				_, ok = pub.(*rsa.PublicKey)
			case AlgorithmES256:
				_, ok = pub.(*ecdsa.PublicKey)
			case AlgorithmEdDSA:
				_, ok = pub.(ed25519.PublicKey)
			}
			if !ok {
				return nil, ErrAlgMismatch
			}
			return pub, nil
		},
		opts: opts,
	}
}

// Verify checks the signature, then issuer, audience and expiry.
func (v *verifier) Verify(tokenStr string) (Claims, error) {
	// Claim validation is done below so the errors stay ours.
	parser := jwt.NewParser(jwt.WithValidMethods(v.methods), jwt.WithoutClaimsValidation())

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingKID), errors.Is(err, ErrUnknownKID), errors.Is(err, ErrAlgMismatch):
			return Claims{}, err
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	now := time.Now().UTC()
	if v.opts.Now != nil {
		now = v.opts.Now()
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(now, v.opts.Leeway); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}

	return *claims, nil
}
