package identity

import (
	"context"
	"sync"
)

// StaticProvider maps fixed tokens to users. It backs local development
// (STUDYDESK_AUTH_MODE=static) and tests.
type StaticProvider struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewStaticProvider(users map[string]User) *StaticProvider {
	m := make(map[string]User, len(users))
	for tok, u := range users {
		m[tok] = u
	}
	return &StaticProvider{users: m}
}

// Set registers or replaces the user behind token.
func (p *StaticProvider) Set(token string, u User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[token] = u
}

func (p *StaticProvider) ResolveUser(_ context.Context, token string) (User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[token]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return u, nil
}
