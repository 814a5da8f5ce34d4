package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet is the auth provider's current verification keys by kid. Replace
// swaps the whole set at once, so a verifier never sees a partial refetch.
type KeySet struct {
	keys atomic.Pointer[map[string]any]
}

func NewKeySet() *KeySet {
	ks := &KeySet{}
	empty := map[string]any{}
	ks.keys.Store(&empty)
	return ks
}

// Get returns *rsa.PublicKey, *ecdsa.PublicKey or ed25519.PublicKey.
func (ks *KeySet) Get(kid string) (any, error) {
	if pub, ok := (*ks.keys.Load())[kid]; ok {
		return pub, nil
	}
	return nil, ErrNoKey
}

func (ks *KeySet) Len() int { return len(*ks.keys.Load()) }

// Replace loads the signing keys of set and returns how many were kept.
// Encryption keys are ignored. If any signing key cannot be decoded the
// current keys stay in place.
func (ks *KeySet) Replace(set JWKS) (int, error) {
	next := make(map[string]any, len(set.Keys))
	for _, j := range set.Keys {
		if j.Use != "" && j.Use != "sig" {
			continue
		}
		pub, err := publicKey(j)
		if err != nil {
			return 0, fmt.Errorf("jwtx: kid %q: %w", j.Kid, err)
		}
		next[j.Kid] = pub
	}

	ks.keys.Store(&next)
	return len(next), nil
}

func publicKey(j JWK) (any, error) {
	switch j.Kty {
	case "RSA":
		return rsaKey(j)
	case "EC":
		return ecKey(j)
	case "OKP":
		return edKey(j)
	}
	return nil, fmt.Errorf("unsupported kty %q", j.Kty)
}

func rsaKey(j JWK) (*rsa.PublicKey, error) {
	n, err := b64Int(j.N)
	if err != nil {
		return nil, err
	}
	e, err := b64Int(j.E)
	if err != nil {
		return nil, err
	}
	if !e.IsInt64() || e.Int64() > 1<<31-1 {
		return nil, errors.New("rsa exponent out of range")
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func ecKey(j JWK) (*ecdsa.PublicKey, error) {
	if j.Crv != "P-256" {
		return nil, fmt.Errorf("unsupported curve %q", j.Crv)
	}
	x, err := b64Int(j.X)
	if err != nil {
		return nil, err
	}
	y, err := b64Int(j.Y)
	if err != nil {
		return nil, err
	}
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
}

func edKey(j JWK) (ed25519.PublicKey, error) {
	if j.Crv != "Ed25519" {
		return nil, fmt.Errorf("unsupported curve %q", j.Crv)
	}
	raw, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("bad ed25519 key length")
	}
	return ed25519.PublicKey(raw), nil
}

func b64Int(s string) (*big.Int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}
