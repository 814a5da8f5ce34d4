package desksdk

import (
	"context"
	"net/http"
)

func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteProfile sets the username after sign-up.
func (c *Client) CompleteProfile(ctx context.Context, username string) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodPost, "/me/profile", nil, CompleteProfileRequest{Username: username}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RedeemTrialCode and Chat relay to the upstream API; the reply body is
// returned as-is.
func (c *Client) RedeemTrialCode(ctx context.Context, code string) ([]byte, error) {
	return c.bytes(ctx, http.MethodPost, "/redeem-trial-code", nil, RedeemTrialCodeRequest{Code: code})
}

func (c *Client) Chat(ctx context.Context, prompt string) ([]byte, error) {
	return c.bytes(ctx, http.MethodPost, "/chat", nil, ChatRequest{Prompt: prompt})
}
