package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/studydesk/pkg/jwtx"
	"github.com/aussiebroadwan/studydesk/pkg/slogx"
)

// minJWKSRefresh bounds how often an unknown kid can trigger a refetch.
const minJWKSRefresh = time.Minute

// JWTProvider verifies provider session tokens locally.
type JWTProvider struct {
	verifier jwtx.Verifier

	// Set only for JWKS-backed providers.
	keys       *jwtx.KeySet
	jwksURL    string
	client     *http.Client
	minRefresh time.Duration
	mu         sync.Mutex
	lastFetch  time.Time
}

// NewHS256Provider verifies tokens signed with the project's shared JWT secret.
func NewHS256Provider(secret []byte, opts jwtx.VerifyOptions) *JWTProvider {
	return &JWTProvider{verifier: jwtx.NewHS256Verifier(secret, opts)}
}

// NewJWKSProvider loads the provider's published signing keys and verifies
// asymmetric tokens against them. Keys are refetched when a token names a kid
// we have not seen, so rotations are picked up without a restart.
func NewJWKSProvider(ctx context.Context, client *http.Client, jwksURL string, opts jwtx.VerifyOptions) (*JWTProvider, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	p := &JWTProvider{
		keys:       jwtx.NewKeySet(),
		jwksURL:    jwksURL,
		client:     client,
		minRefresh: minJWKSRefresh,
	}
	p.verifier = jwtx.NewKeySetVerifier(p.keys, opts)

	if err := p.refresh(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *JWTProvider) ResolveUser(ctx context.Context, token string) (User, error) {
	claims, err := p.verifier.Verify(token)
	if errors.Is(err, jwtx.ErrUnknownKID) && p.jwksURL != "" && p.refreshDue() {
		if rerr := p.refresh(ctx); rerr != nil {
			slogx.FromContext(ctx).Warn("jwks refresh failed", "error", rerr)
		} else {
			claims, err = p.verifier.Verify(token)
		}
	}
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return User{ID: claims.Subject, Email: claims.Email, SessionID: claims.SessionID}, nil
}

func (p *JWTProvider) refreshDue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastFetch) >= p.minRefresh
}

func (p *JWTProvider) refresh(ctx context.Context) error {
	p.mu.Lock()
	p.lastFetch = time.Now()
	p.mu.Unlock()

	jwks, err := jwtx.FetchJWKS(ctx, p.client, p.jwksURL)
	if err != nil {
		return err
	}
	n, err := p.keys.Replace(jwks)
	if err != nil {
		return fmt.Errorf("identity: load jwks: %w", err)
	}

	slogx.FromContext(ctx).Debug("jwks loaded", "keys", n)
	return nil
}
