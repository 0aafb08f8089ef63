// Package services contains application services for the fittrack client.
// This file defines the authentication service: login, registration, logout
// and keeping the session's profile in step with the server.
package services

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
	"github.com/dmitrijs2005/fittrack/internal/client/session"
)

// AuthAPI is the part of the API client used for authentication.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
}

// SessionManager is the part of session.Manager the services drive.
type SessionManager interface {
	Snapshot() session.Session
	SignIn(ctx context.Context, token string, user *models.User) error
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, user *models.User) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login, Register: call the API and, on success, sign the session in.
//   - Logout: sign the session out; never fails because of storage.
//   - RefreshProfile, UpdateProfile: fetch or change the profile on the
//     server and store it in the active session.
//
// API errors are returned unchanged so callers can match them with
// errors.Is. A rejected credential never signs the session out here.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
}

type authService struct {
	api     AuthAPI
	session SessionManager
}

// NewAuthService constructs an AuthService bound to the given API and session.
func NewAuthService(api AuthAPI, session SessionManager) AuthService {
	return &authService{api: api, session: session}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := a.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := a.session.SignIn(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	resp, err := a.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := a.session.SignIn(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.SignOut(ctx)
}

// RefreshProfile replaces the session's profile with the server's copy.
func (a *authService) RefreshProfile(ctx context.Context) (*models.User, error) {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.session.UpdateUser(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

func (a *authService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	user, err := a.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := a.session.UpdateUser(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}
