package client

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/point"
)

// TokenPair is the session credential pair every successful login or
// registration yields.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// AuthAPI covers the account endpoints: login, registration, logout and the
// current user's profile.
type AuthAPI struct {
	session *SessionClient
	tokens  *TokenStore
	log     *slog.Logger
}

func NewAuthAPI(session *SessionClient, tokens *TokenStore, log *slog.Logger) *AuthAPI {
	return &AuthAPI{session: session, tokens: tokens, log: log}
}

// Login authenticates and persists the returned token pair.
func (a *AuthAPI) Login(ctx context.Context, email, password string) error {
	resp, err := a.session.Request(ctx, http.MethodPost, "/accounts/login/",
		map[string]string{"email": email, "password": password}, nil)
	if err != nil {
		return err
	}

	var pair TokenPair
	if err := parseResponse(resp, &pair); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.tokens.Save(ctx, pair.Access, pair.Refresh); err != nil {
		return err
	}

	a.log.Debug("logged in", "email", email)
	return nil
}

// Register creates an account and persists the returned token pair.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := a.session.Request(ctx, http.MethodPost, "/accounts/register/", req, nil)
	if err != nil {
		return err
	}

	var pair TokenPair
	if err := parseResponse(resp, &pair); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	return a.tokens.Save(ctx, pair.Access, pair.Refresh)
}

// Logout revokes the refresh token server-side, then destroys the local
// session regardless of the backend's answer.
func (a *AuthAPI) Logout(ctx context.Context) error {
	refresh, err := a.tokens.GetRefresh(ctx)
	if err != nil {
		return err
	}

	if refresh != "" {
		resp, err := a.session.Request(ctx, http.MethodPost, "/accounts/logout/",
			map[string]string{"refresh": refresh}, nil)
		if err != nil {
			a.log.Debug("logout request failed, clearing session anyway", "error", err)
		} else if !resp.OK() {
			a.log.Debug("logout rejected, clearing session anyway", "status", resp.StatusCode)
		}
	}

	return a.tokens.Clear(ctx)
}

// Me fetches the authenticated user's profile.
func (a *AuthAPI) Me(ctx context.Context) (point.User, error) {
	resp, err := a.session.Request(ctx, http.MethodGet, "/accounts/me/", nil, nil)
	if err != nil {
		return point.User{}, err
	}

	var user point.User
	if err := parseResponse(resp, &user); err != nil {
		return point.User{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}
