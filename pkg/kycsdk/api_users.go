package kycsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, limit, skip int) (*ListUsersResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}

	var resp ListUsersResponse
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/users", Query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser applies a partial update and returns the upstream's view of the user.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	var resp UserResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   "/users/" + url.PathEscape(id),
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
