package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

var errIncompleteAuth = errors.New("auth response without token or user")

// Login exchanges credentials for a token. It needs no existing session.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errIncompleteAuth
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errIncompleteAuth
	}
	return &resp, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	return c.profile(ctx, http.MethodGet, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	return c.profile(ctx, http.MethodPut, update)
}

func (c *Client) profile(ctx context.Context, method string, in any) (*models.User, error) {
	var resp models.ProfileResponse
	if err := c.do(ctx, method, "/auth/profile", in, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("profile response without user")
	}
	return resp.User, nil
}
