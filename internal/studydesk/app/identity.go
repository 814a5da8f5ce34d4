package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/identity"
	"github.com/aussiebroadwan/studydesk/pkg/jwtx"
)

// InitIdentity builds the provider selected by cfg.AuthMode.
func InitIdentity(ctx context.Context, cfg Config) (identity.Provider, error) {
	opts := jwtx.VerifyOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   cfg.JWTLeeway,
	}
	client := &http.Client{Timeout: 10 * time.Second}

	switch cfg.AuthMode {
	case AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("STUDYDESK_JWT_SECRET is required in %s mode", AuthModeJWT)
		}
		return identity.NewHS256Provider([]byte(cfg.JWTSecret), opts), nil

	case AuthModeJWKS:
		if cfg.JWKSURL == "" {
			return nil, fmt.Errorf("STUDYDESK_JWKS_URL is required in %s mode", AuthModeJWKS)
		}
		return identity.NewJWKSProvider(ctx, client, cfg.JWKSURL, opts)

	case AuthModeRemote:
		if cfg.AuthURL == "" {
			return nil, fmt.Errorf("STUDYDESK_AUTH_URL is required in %s mode", AuthModeRemote)
		}
		return identity.NewRemoteProvider(cfg.AuthURL, cfg.AuthAPIKey, client), nil

	case AuthModeStatic:
		users, err := ParseStaticTokens(cfg.StaticTokens)
		if err != nil {
			return nil, err
		}
		return identity.NewStaticProvider(users), nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// ParseStaticTokens reads "token=user_id[:email],..." pairs.
func ParseStaticTokens(s string) (map[string]identity.User, error) {
	users := map[string]identity.User{}
	for _, pair := range splitList(s) {
		token, rest, ok := strings.Cut(pair, "=")
		if !ok || token == "" || rest == "" {
			return nil, fmt.Errorf("static token %q: want token=user_id[:email]", pair)
		}
		id, email, _ := strings.Cut(rest, ":")
		users[token] = identity.User{ID: id, Email: email}
	}
	return users, nil
}

// ParseBootstrapAdmins reads "user_id[:email],..." entries.
func ParseBootstrapAdmins(s string) []identity.User {
	var users []identity.User
	for _, entry := range splitList(s) {
		id, email, _ := strings.Cut(entry, ":")
		if id = strings.TrimSpace(id); id != "" {
			users = append(users, identity.User{ID: id, Email: strings.TrimSpace(email)})
		}
	}
	return users
}
