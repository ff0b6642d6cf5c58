package newsdesk

import (
	"context"
	"net/http"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	c.logger.Info("logged in", "user_id", resp.UserID)
	return MapAuth(resp), nil
}

// Register creates an account. The token in the result may be empty when the
// server does not log the new account in.
func (c *Client) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", nil, RegisterRequest{
		Email:    email,
		Password: password,
		Username: username,
	})
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if len(body) > 0 {
		if err := decode(body, &resp); err != nil {
			return nil, err
		}
	}
	return MapAuth(resp), nil
}

// CurrentUser returns the identity behind the stored token
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var dto UserDTO
	if err := c.getJSON(ctx, "/auth/me", nil, &dto); err != nil {
		return nil, err
	}
	user := MapUser(dto)
	return &user, nil
}

// ChangePassword updates the password of the current user
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	_, err := c.doRequest(ctx, http.MethodPut, "/auth/password", nil, ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	return err
}

// DeleteAccount deletes the current account. The password travels in the body.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/auth/account", nil, PasswordRequest{
		Password: password,
	})
	return err
}

// Verify interface compliance
var (
	_ domain.ArticleRepository    = (*Client)(nil)
	_ domain.SummaryRepository    = (*Client)(nil)
	_ domain.BookmarkRepository   = (*Client)(nil)
	_ domain.StatisticsRepository = (*Client)(nil)
	_ domain.AuthRepository       = (*Client)(nil)
)
