package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avrentops/rentalctl/internal/domain"
)

type ActivityLogParams struct {
	UserID     string
	Action     string
	EntityType string
	StartDate  string
	EndDate    string
	Page       int
	Limit      int
}

func (p *ActivityLogParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	setStr(v, "user_id", p.UserID)
	setStr(v, "action", p.Action)
	setStr(v, "entity_type", p.EntityType)
	setStr(v, "start_date", p.StartDate)
	setStr(v, "end_date", p.EndDate)
	setInt(v, "page", p.Page)
	setInt(v, "limit", p.Limit)
	return v
}

func (c *Client) ListActivityLogs(ctx context.Context, params *ActivityLogParams) (*domain.Page[domain.ActivityLog], error) {
	var page domain.Page[domain.ActivityLog]
	if err := c.do(ctx, http.MethodGet, "/activity-logs", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
