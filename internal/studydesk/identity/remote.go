package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteProvider asks the auth provider's user endpoint about every token.
// It is slower than JWTProvider but sees revocations immediately.
type RemoteProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemoteProvider(baseURL, apiKey string, client *http.Client) *RemoteProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (p *RemoteProvider) ResolveUser(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("identity: user lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return User{}, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return User{}, fmt.Errorf("identity: user lookup: unexpected status %d", resp.StatusCode)
	}

	var u remoteUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return User{}, fmt.Errorf("identity: decode user: %w", err)
	}
	if u.ID == "" {
		return User{}, ErrInvalidToken
	}

	return User{ID: u.ID, Email: u.Email}, nil
}
