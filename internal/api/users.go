package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type UserListParams struct {
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

func (p *UserListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "role", p.Role)
	setBool(v, "is_active", p.IsActive)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) ListUsers(ctx context.Context, params *UserListParams) (*domain.Page[domain.User], error) {
	var page domain.Page[domain.User]
	if err := c.do(ctx, http.MethodGet, "/users", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	var created domain.User
	if err := c.do(ctx, http.MethodPost, "/users", nil, reg, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, user *domain.User) (*domain.User, error) {
	var updated domain.User
	if err := c.do(ctx, http.MethodPut, "/users/"+id, nil, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil)
}
