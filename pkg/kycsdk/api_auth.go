package kycsdk

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges credentials for an access token and the initial profile.
// A non-positive ttlMins lets the upstream pick its default lifetime.
func (c *Client) Login(ctx context.Context, username, password string, ttlMins int) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body: LoginRequest{
			Username:      username,
			Password:      password,
			ExpiresInMins: max(ttlMins, 0),
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the extended profile of the holder of the stored token.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	return c.me(ctx, "")
}

// LoginProfile fetches the profile for a token a login just returned, before
// the caller has stored it.
func (c *Client) LoginProfile(ctx context.Context, accessToken string) (*UserResponse, error) {
	if accessToken == "" {
		return nil, errors.New("kycsdk: login profile needs an access token")
	}
	return c.me(ctx, accessToken)
}

func (c *Client) me(ctx context.Context, bearer string) (*UserResponse, error) {
	var resp UserResponse
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/auth/me",
		bearer: bearer,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
