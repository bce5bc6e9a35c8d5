package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avrentops/rentalctl/internal/domain"
)

func (c *Client) ListCategories(ctx context.Context, includeSubcategories bool) ([]domain.Category, error) {
	v := url.Values{}
	v.Set("includeSubcategories", strconv.FormatBool(includeSubcategories))
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", v, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories/"+id, nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, category *domain.Category) (*domain.Category, error) {
	var updated domain.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+id, nil, category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil, nil)
}

func (c *Client) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) (*domain.Subcategory, error) {
	var created domain.Subcategory
	if err := c.do(ctx, http.MethodPost, "/subcategories", nil, sub, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateSubcategory(ctx context.Context, id string, sub *domain.Subcategory) (*domain.Subcategory, error) {
	var updated domain.Subcategory
	if err := c.do(ctx, http.MethodPut, "/subcategories/"+id, nil, sub, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteSubcategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/subcategories/"+id, nil, nil, nil)
}
