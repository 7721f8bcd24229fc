package client

import (
	"context"
	"net/http"
)

// Login starts a session. The access-token cookie lands in the jar, so
// subsequent calls are authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var user User
	payload := map[string]any{"email": email, "password": password}
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", payload, "user", &user)
	return user, err
}

// Logout revokes the current session token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", "", nil, "", nil)
}

// Me returns the account behind the current session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/v1/auth/me", "", nil, "user", &user)
	return user, err
}

// ForgotPassword requests a reset code. The server answers the same way
// whether or not the address is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]any{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/forgot-password", payload, "", nil)
}

// VerifyOTP submits a verification code. For a reset code the returned token
// feeds ResetPassword; for an activation code it is empty.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (resetToken string, err error) {
	payload := map[string]any{"email": email, "code": code}
	var token string
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/verify-otp", payload, "resetToken", &token); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword sets a new password using a token from VerifyOTP.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	payload := map[string]any{"resetToken": resetToken, "password": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/reset-password", payload, "", nil)
}
