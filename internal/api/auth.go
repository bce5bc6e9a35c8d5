package api

import (
	"context"
	"net/http"

	"github.com/avrentops/rentalctl/internal/domain"
)

// Login authenticates with email and password. It returns the session
// payload without persisting anything; the session manager owns that.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var session domain.AuthSession
	creds := domain.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthSession, error) {
	var session domain.AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Me returns the user the persisted token belongs to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var data struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}
